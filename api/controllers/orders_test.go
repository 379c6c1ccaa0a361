package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type stubCheckout struct {
	req *checkout.Request
	dto *orders.OrderDTO
	err error
}

func (s *stubCheckout) Checkout(ctx context.Context, userID uuid.UUID, req checkout.Request) (*orders.OrderDTO, error) {
	s.req = &req
	return s.dto, s.err
}

type stubOrdersService struct {
	dto      *orders.OrderDTO
	list     *orders.ListResult
	err      error
	role     enums.UserRole
	filters  orders.AdminFilters
	params   pagination.Params
	update   *orders.UpdateStatusRequest
	cancelID uuid.UUID
}

func (s *stubOrdersService) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.ListResult, error) {
	s.params = params
	return s.list, s.err
}

func (s *stubOrdersService) Get(ctx context.Context, userID uuid.UUID, role enums.UserRole, orderID uuid.UUID) (*orders.OrderDTO, error) {
	s.role = role
	return s.dto, s.err
}

func (s *stubOrdersService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	s.cancelID = orderID
	return s.dto, s.err
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req orders.UpdateStatusRequest) (*orders.OrderDTO, error) {
	s.update = &req
	return s.dto, s.err
}

func (s *stubOrdersService) ListAll(ctx context.Context, filters orders.AdminFilters, params pagination.Params) (*orders.ListResult, error) {
	s.filters = filters
	s.params = params
	return s.list, s.err
}

const checkoutBody = `{
	"shippingAddress":{"street":"1 Main St","city":"Springfield","state":"IL","zipCode":"62701","country":"US"},
	"paymentMethod":"credit_card"
}`

func TestOrderCreateReturnsCreated(t *testing.T) {
	svc := &stubCheckout{dto: &orders.OrderDTO{ID: uuid.New(), OrderNumber: "ORD-1"}}
	req := withShopper(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody)), uuid.New())
	resp := httptest.NewRecorder()
	OrderCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.req == nil || svc.req.PaymentMethod != enums.PaymentMethodCreditCard {
		t.Fatalf("unexpected checkout request: %+v", svc.req)
	}
}

func TestOrderCreateRejectsMissingAddressField(t *testing.T) {
	svc := &stubCheckout{}
	body := `{"shippingAddress":{"street":"1 Main St"},"paymentMethod":"credit_card"}`
	req := withShopper(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	OrderCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.req != nil {
		t.Fatal("checkout should not run on invalid body")
	}
}

func TestOrderCreateEmptyCart(t *testing.T) {
	svc := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeBusinessRule, "Cart is empty")}
	req := withShopper(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody)), uuid.New())
	resp := httptest.NewRecorder()
	OrderCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Success || envelope.Message != "Cart is empty" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestOrderListMineWritesPagination(t *testing.T) {
	svc := &stubOrdersService{list: &orders.ListResult{
		Orders:     []orders.OrderDTO{{ID: uuid.New()}, {ID: uuid.New()}},
		Pagination: pagination.Meta{Page: 2, Limit: 2, Total: 5, Pages: 3},
	}}
	req := withShopper(httptest.NewRequest(http.MethodGet, "/api/orders?page=2&limit=2", nil), uuid.New())
	resp := httptest.NewRecorder()
	OrderListMine(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.params.Page != 2 || svc.params.Limit != 2 {
		t.Fatalf("unexpected params: %+v", svc.params)
	}
	var envelope struct {
		Count      int             `json:"count"`
		Pagination pagination.Meta `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Count != 2 || envelope.Pagination.Pages != 3 {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestOrderListAllParsesFilters(t *testing.T) {
	svc := &stubOrdersService{list: &orders.ListResult{}}
	target := "/api/orders/admin/all?status=shipped&startDate=2024-01-01&endDate=2024-02-01T00:00:00Z"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	OrderListAll(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.filters.Status == nil || *svc.filters.Status != enums.OrderStatusShipped {
		t.Fatalf("unexpected status filter: %v", svc.filters.Status)
	}
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if svc.filters.StartDate == nil || !svc.filters.StartDate.Equal(wantStart) {
		t.Fatalf("unexpected start date: %v", svc.filters.StartDate)
	}
	if svc.filters.EndDate == nil || svc.filters.EndDate.Month() != time.February {
		t.Fatalf("unexpected end date: %v", svc.filters.EndDate)
	}
}

func TestOrderListAllRejectsBadFilters(t *testing.T) {
	for _, target := range []string{
		"/api/orders/admin/all?status=lost",
		"/api/orders/admin/all?startDate=yesterday",
	} {
		svc := &stubOrdersService{list: &orders.ListResult{}}
		resp := httptest.NewRecorder()
		OrderListAll(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, resp.Code)
		}
	}
}

func TestOrderGetUsesCallerRole(t *testing.T) {
	svc := &stubOrdersService{dto: &orders.OrderDTO{ID: uuid.New()}}
	router := chi.NewRouter()
	router.Get("/api/orders/{id}", OrderGet(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), enums.UserRoleAdmin, "a"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role forwarded, got %q", svc.role)
	}
}

func TestOrderGetMalformedIDIsNotFound(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/orders/{id}", OrderGet(&stubOrdersService{}, nil))

	req := withShopper(httptest.NewRequest(http.MethodGet, "/api/orders/not-a-uuid", nil), uuid.New())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestOrderCancelForbidden(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized to cancel this order")}
	router := chi.NewRouter()
	router.Put("/api/orders/{id}/cancel", OrderCancel(svc, nil))

	req := withShopper(httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/cancel", nil), uuid.New())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if svc.cancelID != orderID {
		t.Fatalf("expected cancel of %s, got %s", orderID, svc.cancelID)
	}
}

func TestOrderUpdateStatusDecodesBody(t *testing.T) {
	svc := &stubOrdersService{dto: &orders.OrderDTO{}}
	router := chi.NewRouter()
	router.Put("/api/orders/{id}", OrderUpdateStatus(svc, nil))

	body := `{"status":"delivered","trackingNumber":"1Z999"}`
	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+uuid.NewString(), strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.update == nil || *svc.update.Status != enums.OrderStatusDelivered || *svc.update.TrackingNumber != "1Z999" {
		t.Fatalf("unexpected update: %+v", svc.update)
	}
}

func TestOrderUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubOrdersService{}
	router := chi.NewRouter()
	router.Put("/api/orders/{id}", OrderUpdateStatus(svc, nil))

	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+uuid.NewString(), strings.NewReader(`{"status":"lost"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.update != nil {
		t.Fatal("service should not run for an unknown status")
	}
}
