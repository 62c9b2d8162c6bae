package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
	"github.com/amelia-salon/storefront/internal/domain/event"
	"github.com/amelia-salon/storefront/internal/pkg/logging"
)

var (
	ErrInvalidCredentials = errors.New("admin: invalid credentials")
	ErrInvalidToken       = errors.New("admin: invalid token")
)

// Credentials is the fixed admin account plus token signing material.
type Credentials struct {
	Username  string
	Password  string
	JWTSecret string
	Issuer    string
	Audience  string
	TokenTTL  time.Duration
}

// ImageStore uploads product images and removes them on product delete.
type ImageStore interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// Service gates product management behind the configured credentials.
// A successful login issues a signed, expiring token; the server
// verifies it on every admin request instead of trusting a client-side
// flag.
type Service struct {
	creds     Credentials
	products  domcatalog.Repository
	images    ImageStore
	publisher event.Publisher
}

func NewService(creds Credentials, products domcatalog.Repository, images ImageStore, publisher event.Publisher) *Service {
	if creds.TokenTTL <= 0 {
		creds.TokenTTL = 12 * time.Hour
	}
	return &Service{
		creds:     creds,
		products:  products,
		images:    images,
		publisher: publisher,
	}
}

// Login checks the credential pair in constant time and issues an HS256
// token on success.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	if !userOK || !passOK {
		logging.FromContext(ctx).Warn("admin_login_rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.creds.Issuer,
		"aud":  s.creds.Audience,
		"sub":  username,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(s.creds.TokenTTL).Unix(),
		"role": "admin",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.creds.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	logging.FromContext(ctx).Info("admin_login_succeeded", zap.String("username", username))
	return signed, nil
}

// VerifyToken checks signature, validity window and issuer/audience.
func (s *Service) VerifyToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.creds.JWTSecret), nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}
	if claims["iss"] != s.creds.Issuer || claims["aud"] != s.creds.Audience {
		return ErrInvalidToken
	}
	return nil
}

// CreateProduct validates required fields and stores the product.
type CreateProductInput struct {
	Name        string
	Price       float64
	Currency    string
	Description string
	Image       string
	Stock       int
	Category    string
	Featured    bool
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (*domcatalog.Product, error) {
	p, err := domcatalog.NewProduct(in.Name, in.Price, in.Image, in.Description, in.Currency, in.Category, in.Stock, in.Featured)
	if err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created.ID, domcatalog.ChangeCreated)
	return created, nil
}

// UpdateProduct applies a partial update; stock-only edits from the
// admin list view come through here too.
func (s *Service) UpdateProduct(ctx context.Context, id string, u domcatalog.Update) (*domcatalog.Product, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.products.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, id, domcatalog.ChangeUpdated)
	return updated, nil
}

// DeleteProduct removes the product and best-effort deletes its
// uploaded image.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}

	if s.images != nil && deleted.Image != "" {
		if err := s.images.Delete(ctx, deleted.Image); err != nil {
			logging.FromContext(ctx).Warn("product_image_delete_failed",
				zap.String("product_id", id),
				zap.Error(err),
			)
		}
	}

	s.publish(ctx, id, domcatalog.ChangeDeleted)
	return nil
}

// StockEdit sets the absolute stock level for one product.
type StockEdit struct {
	ProductID string `json:"id"`
	Stock     int    `json:"stock"`
}

// StockEditResult reports a single bulk-edit outcome.
type StockEditResult struct {
	ProductID string `json:"id"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Stock     *int   `json:"stock,omitempty"`
}

// SetStock applies a bulk absolute stock edit from the admin list view.
// Each product is handled independently.
func (s *Service) SetStock(ctx context.Context, edits []StockEdit) []StockEditResult {
	results := make([]StockEditResult, 0, len(edits))
	for _, edit := range edits {
		if edit.ProductID == "" || edit.Stock < 0 {
			results = append(results, StockEditResult{ProductID: edit.ProductID, Message: "Invalid product data"})
			continue
		}

		stock := edit.Stock
		updated, err := s.products.Update(ctx, edit.ProductID, domcatalog.Update{Stock: &stock})
		if err != nil {
			msg := "Failed to update stock"
			if errors.Is(err, domcatalog.ErrNotFound) {
				msg = "Product not found"
			}
			results = append(results, StockEditResult{ProductID: edit.ProductID, Message: msg})
			continue
		}

		s.publish(ctx, edit.ProductID, domcatalog.ChangeStockAdjusted)
		results = append(results, StockEditResult{ProductID: edit.ProductID, Success: true, Stock: &updated.Stock})
	}
	return results
}

// UploadImage stores an image and returns its public URL.
func (s *Service) UploadImage(ctx context.Context, name string, r io.Reader) (string, error) {
	if s.images == nil {
		return "", errors.New("admin: image storage not configured")
	}
	return s.images.Upload(ctx, name, r)
}

func (s *Service) publish(ctx context.Context, productID, change string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, domcatalog.NewProductChangedEvent(productID, change)); err != nil {
		logging.FromContext(ctx).Warn("product_event_publish_failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}
