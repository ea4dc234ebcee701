package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkaify/Nova-Threads/internal/account"
	"github.com/Mkaify/Nova-Threads/internal/cart"
	"github.com/Mkaify/Nova-Threads/internal/catalog"
	"github.com/Mkaify/Nova-Threads/internal/checkout"
	"github.com/Mkaify/Nova-Threads/internal/domain"
	"github.com/Mkaify/Nova-Threads/internal/newsletter"
	"github.com/Mkaify/Nova-Threads/internal/notify"
	"github.com/Mkaify/Nova-Threads/internal/reviews"
	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

// fakeRemote stands in for the hosted service across every table the
// storefront touches, routing by table name.
type fakeRemote struct {
	mu       sync.Mutex
	products []domain.Product
	reviews  []domain.Review
	profiles []domain.Profile

	orderInserts int
	itemInserts  int
	invocations  []string
}

func (f *fakeRemote) Select(_ context.Context, table, _ string, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch table {
	case "Products":
		*(dest.(*[]domain.Product)) = f.products
	case "Reviews":
		*(dest.(*[]domain.Review)) = f.reviews
	case "Orders":
		*(dest.(*[]domain.Order)) = nil
	case "profiles":
		*(dest.(*[]domain.Profile)) = f.profiles
	default:
		return errors.New("unexpected table " + table)
	}
	return nil
}

func (f *fakeRemote) Insert(_ context.Context, table string, _, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch table {
	case "Orders":
		f.orderInserts++
		*(dest.(*[]domain.Order)) = []domain.Order{{ID: "order-1", Status: domain.OrderStatusPaid}}
	case "OrderItems":
		f.itemInserts++
	case "Reviews":
		*(dest.(*[]domain.Review)) = []domain.Review{{ID: "r-new", Rating: 5}}
	default:
		return errors.New("unexpected table " + table)
	}
	return nil
}

func (f *fakeRemote) Update(_ context.Context, _, _ string, _, _ any) error { return nil }

func (f *fakeRemote) Delete(_ context.Context, _, _ string) error { return nil }

func (f *fakeRemote) InvokeFunction(_ context.Context, name string, _, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invocations = append(f.invocations, name)
	return nil
}

type fakeVerifier struct{}

func (fakeVerifier) UserFromToken(token string) (*supabase.User, error) {
	if token != "valid-token" {
		return nil, supabase.ErrInvalidToken
	}
	return &supabase.User{ID: "user-1", Email: "ada@example.com"}, nil
}

type fakeAuthClient struct{}

func (fakeAuthClient) SignUp(_ context.Context, email, _ string) (*supabase.Session, error) {
	return &supabase.Session{AccessToken: "at", User: supabase.User{ID: "u-new", Email: email}}, nil
}

func (fakeAuthClient) SignInWithPassword(_ context.Context, email, _ string) (*supabase.Session, error) {
	return &supabase.Session{AccessToken: "at", User: supabase.User{ID: "u1", Email: email}}, nil
}

func (fakeAuthClient) SignOut(context.Context) error { return nil }

type fakeFileStore struct{}

func (fakeFileStore) Upload(context.Context, string, string, string, []byte) error { return nil }

func (fakeFileStore) PublicURL(bucket, path string) string {
	return "https://cdn.example/" + bucket + "/" + path
}

func newTestRouter(t *testing.T) (http.Handler, *fakeRemote) {
	t.Helper()

	remote := &fakeRemote{
		products: []domain.Product{
			{ID: "p1", Name: "Linen Shirt", Category: "clothing", Price: 49, Tags: []string{"bestseller"}},
			{ID: "p2", Name: "Wool Coat", Category: "clothing", Price: 189},
		},
		profiles: []domain.Profile{{ID: "user-1", Email: "ada@example.com", FullName: "Ada L"}},
	}

	recorder := &notify.Recorder{}
	cat := catalog.New(remote)
	carts := cart.NewManager(cart.NewMemoryStorage(), recorder)

	return NewRouter(RouterConfig{
		Products:       NewProductHandler(cat, fakeFileStore{}),
		Cart:           NewCartHandler(carts, cat),
		Checkout:       NewCheckoutHandler(checkout.NewFlow(remote, recorder), carts),
		Reviews:        NewReviewHandler(reviews.New(remote)),
		Auth:           NewAuthHandler(fakeAuthClient{}),
		Account:        NewAccountHandler(account.New(remote)),
		Newsletter:     NewNewsletterHandler(newsletter.New(remote)),
		TokenVerifier:  fakeVerifier{},
		RequestTimeout: 5 * time.Second,
	}), remote
}

// browser keeps the session cookie and bearer token across requests the way
// a shopper's browser would.
type browser struct {
	t       *testing.T
	router  http.Handler
	cookies []*http.Cookie
	token   string
}

func (b *browser) do(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)

	if set := rec.Result().Cookies(); len(set) > 0 {
		b.cookies = set
	}
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) CartResponseDTO {
	t.Helper()
	var out CartResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFoundIsJSON(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "not_found", resp.Code)
}

func TestSessionCookieAssigned(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	b.do(http.MethodGet, "/api/v1/cart", nil)

	require.Len(t, b.cookies, 1)
	assert.Equal(t, "nova_sid", b.cookies[0].Name)
	assert.NotEmpty(t, b.cookies[0].Value)
}

func TestListProducts_Filtering(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodGet, "/api/v1/products?q=coat", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

func TestGetProduct_Unknown(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodGet, "/api/v1/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1", Size: "M"})
	require.Equal(t, http.StatusCreated, rec.Code)
	state := decodeCart(t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.Equal(t, "M", state.Items[0].SelectedSize)

	// Same product again merges into the existing line.
	rec = b.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1", Size: "L"})
	state = decodeCart(t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, "M", state.Items[0].SelectedSize)
	assert.Equal(t, 98.0, state.CartTotal)
	assert.Equal(t, 2, state.CartCount)

	// The cart survives a "reload" via the session cookie.
	rec = b.do(http.MethodGet, "/api/v1/cart", nil)
	state = decodeCart(t, rec)
	assert.Equal(t, 2, state.CartCount)

	rec = b.do(http.MethodPut, "/api/v1/cart/items/p1", UpdateQuantityRequestDTO{Quantity: 0})
	state = decodeCart(t, rec)
	assert.Empty(t, state.Items)
	assert.Equal(t, 0.0, state.CartTotal)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_RequiresAuth(t *testing.T) {
	router, remote := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodPost, "/api/v1/checkout", CheckoutRequestDTO{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get("Location"))
	assert.Equal(t, 0, remote.orderInserts)
}

func TestCheckout_EmptyCartNeverWritesRemotely(t *testing.T) {
	router, remote := newTestRouter(t)
	b := &browser{t: t, router: router, token: "valid-token"}

	rec := b.do(http.MethodPost, "/api/v1/checkout", CheckoutRequestDTO{})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "/shop", rec.Header().Get("Location"))
	assert.Equal(t, 0, remote.orderInserts)
	assert.Equal(t, 0, remote.itemInserts)
}

func TestCheckout_Success(t *testing.T) {
	router, remote := newTestRouter(t)
	b := &browser{t: t, router: router, token: "valid-token"}

	rec := b.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = b.do(http.MethodPost, "/api/v1/checkout", CheckoutRequestDTO{
		Shipping: domain.ShippingDetails{FirstName: "Ada", Email: "ada@example.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order domain.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, 1, remote.orderInserts)
	assert.Equal(t, 1, remote.itemInserts)

	// The cart is gone after checkout.
	rec = b.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, 0, decodeCart(t, rec).CartCount)
}

func TestInvalidTokenIsAnonymous(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router, token: "garbage"}

	rec := b.do(http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccount_GetProfile(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router, token: "valid-token"}

	rec := b.do(http.MethodGet, "/api/v1/account", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile domain.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profile))
	assert.Equal(t, "Ada L", profile.FullName)
}

func TestAccount_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodGet, "/api/v1/account", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get("Location"))
}

func TestSubmitReview_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodPost, "/api/v1/products/p1/reviews", SubmitReviewRequestDTO{Rating: 5})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitReview_SignedIn(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router, token: "valid-token"}

	rec := b.do(http.MethodPost, "/api/v1/products/p1/reviews", SubmitReviewRequestDTO{Rating: 5, Comment: "great"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestNewsletterSubscribe(t *testing.T) {
	router, remote := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodPost, "/api/v1/newsletter", SubscribeRequestDTO{Email: "ada@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"subscribe-newsletter"}, remote.invocations)

	rec = b.do(http.MethodPost, "/api/v1/newsletter", SubscribeRequestDTO{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignIn(t *testing.T) {
	router, _ := newTestRouter(t)
	b := &browser{t: t, router: router}

	rec := b.do(http.MethodPost, "/api/v1/auth/signin", CredentialsDTO{Email: "ada@example.com", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	var session supabase.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	assert.Equal(t, "at", session.AccessToken)

	rec = b.do(http.MethodPost, "/api/v1/auth/signin", CredentialsDTO{Email: "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
