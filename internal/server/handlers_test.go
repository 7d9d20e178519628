package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/propertydesk/internal/clock"
	dashboarddomain "github.com/smallbiznis/propertydesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/propertydesk/internal/invoice/domain"
	paymentdomain "github.com/smallbiznis/propertydesk/internal/payment/domain"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// -- Mocks --

type meterServiceMock struct {
	mock.Mock
}

func (m *meterServiceMock) List(ctx context.Context) ([]waterdomain.WaterMeter, error) {
	args := m.Called(ctx)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.([]waterdomain.WaterMeter), args.Error(1)
}

func (m *meterServiceMock) Get(ctx context.Context, id string) (*waterdomain.WaterMeter, error) {
	args := m.Called(ctx, id)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*waterdomain.WaterMeter), args.Error(1)
}

func (m *meterServiceMock) Create(ctx context.Context, req waterdomain.CreateMeterRequest) (*waterdomain.WaterMeter, error) {
	args := m.Called(ctx, req)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*waterdomain.WaterMeter), args.Error(1)
}

func (m *meterServiceMock) Update(ctx context.Context, req waterdomain.UpdateMeterRequest) (*waterdomain.WaterMeter, error) {
	args := m.Called(ctx, req)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*waterdomain.WaterMeter), args.Error(1)
}

func (m *meterServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type readingServiceMock struct {
	mock.Mock
}

func (m *readingServiceMock) List(ctx context.Context) ([]waterdomain.ReadingView, error) {
	args := m.Called(ctx)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.([]waterdomain.ReadingView), args.Error(1)
}

func (m *readingServiceMock) Get(ctx context.Context, id string) (*waterdomain.ReadingView, error) {
	args := m.Called(ctx, id)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*waterdomain.ReadingView), args.Error(1)
}

func (m *readingServiceMock) Create(ctx context.Context, req waterdomain.ReadingRequest) (*waterdomain.WaterReading, error) {
	args := m.Called(ctx, req)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*waterdomain.WaterReading), args.Error(1)
}

func (m *readingServiceMock) Update(ctx context.Context, id string, req waterdomain.ReadingRequest) (*waterdomain.WaterReading, error) {
	args := m.Called(ctx, id, req)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*waterdomain.WaterReading), args.Error(1)
}

func (m *readingServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *readingServiceMock) BulkCreate(ctx context.Context, reqs []waterdomain.ReadingRequest) (*waterdomain.BulkResult, error) {
	args := m.Called(ctx, reqs)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*waterdomain.BulkResult), args.Error(1)
}

type fakeReportService struct {
	report *waterdomain.Report
	err    error
}

func (f *fakeReportService) Build(context.Context) (*waterdomain.Report, error) {
	return f.report, f.err
}

type fakePDF struct {
	called bool
}

func (f *fakePDF) RenderWaterReport(ctx context.Context, report *waterdomain.Report, generatedAt time.Time) (io.Reader, error) {
	f.called = true
	return strings.NewReader("%PDF-1.3 stub"), nil
}

type fakePaymentService struct {
	paymentdomain.Service
	monthsSeen *int
}

func (f *fakePaymentService) MonthlyRevenue(ctx context.Context, months *int) ([]paymentdomain.MonthlyRevenue, error) {
	f.monthsSeen = months
	if months != nil && *months < 1 {
		return nil, paymentdomain.ErrInvalidMonths
	}
	return []paymentdomain.MonthlyRevenue{{Year: 2024, Month: 3, Value: 1200}}, nil
}

func (f *fakePaymentService) Create(ctx context.Context, req paymentdomain.CreateRequest) (*paymentdomain.Payment, error) {
	if req.TenancyID == 0 {
		return nil, paymentdomain.ErrFieldsRequired
	}
	return &paymentdomain.Payment{PaymentID: 41, TenancyID: req.TenancyID, AmountPaid: req.AmountPaid}, nil
}

type fakeInvoiceService struct {
	invoicedomain.Service
	updated *invoicedomain.UpdateRequest
}

func (f *fakeInvoiceService) List(ctx context.Context, filter invoicedomain.ListFilter) ([]invoicedomain.Invoice, error) {
	return []invoicedomain.Invoice{{InvoiceID: 3, InvoiceNumber: "INV-3", Status: invoicedomain.InvoiceStatusOpen}}, nil
}

func (f *fakeInvoiceService) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	if id != "3" {
		return nil, invoicedomain.ErrNotFound
	}
	return &invoicedomain.Invoice{InvoiceID: 3, InvoiceNumber: "INV-3"}, nil
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.CreateRequest) (*invoicedomain.Invoice, error) {
	if req.TenancyID == 0 || req.InvoiceNumber == "" {
		return nil, invoicedomain.ErrFieldsRequired
	}
	return &invoicedomain.Invoice{InvoiceID: 12, TenancyID: req.TenancyID, InvoiceNumber: req.InvoiceNumber}, nil
}

func (f *fakeInvoiceService) Update(ctx context.Context, req invoicedomain.UpdateRequest) error {
	f.updated = &req
	switch {
	case req.InvoiceID <= 0:
		return invoicedomain.ErrInvalidID
	case req.AmountPaid == nil && req.Status == nil:
		return invoicedomain.ErrNoFieldsToUpdate
	case req.InvoiceID != 3:
		return invoicedomain.ErrNotFound
	}
	return nil
}

func (f *fakeInvoiceService) CreatePayment(ctx context.Context, req invoicedomain.CreatePaymentRequest) (*invoicedomain.InvoicePayment, error) {
	if req.InvoiceID == 0 || req.PaymentID == 0 || req.AmountApplied == 0 {
		return nil, invoicedomain.ErrPaymentFieldsRequired
	}
	return &invoicedomain.InvoicePayment{InvoicePaymentID: 8, InvoiceID: req.InvoiceID, PaymentID: req.PaymentID}, nil
}

func (f *fakeInvoiceService) GetPaymentByID(ctx context.Context, id string) (*invoicedomain.InvoicePayment, error) {
	if id != "8" {
		return nil, invoicedomain.ErrPaymentNotFound
	}
	return &invoicedomain.InvoicePayment{InvoicePaymentID: 8, InvoiceID: 3, PaymentID: 7, AmountApplied: 500}, nil
}

type fakeDashboardService struct {
	dashboarddomain.Service
	err error
}

func (f *fakeDashboardService) Metrics(context.Context) (*dashboarddomain.Metrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dashboarddomain.Metrics{OccupancyRate: 75, TotalApartments: 4}, nil
}

// -- Helpers --

type testServer struct {
	router    *gin.Engine
	meters    *meterServiceMock
	readings  *readingServiceMock
	reports   *fakeReportService
	pdf       *fakePDF
	payments  *fakePaymentService
	invoices  *fakeInvoiceService
	dashboard *fakeDashboardService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())

	ts := &testServer{
		router:    router,
		meters:    &meterServiceMock{},
		readings:  &readingServiceMock{},
		reports:   &fakeReportService{report: &waterdomain.Report{}},
		pdf:       &fakePDF{},
		payments:  &fakePaymentService{},
		invoices:  &fakeInvoiceService{},
		dashboard: &fakeDashboardService{},
	}

	srv := &Server{
		engine:       router,
		clock:        clock.NewFakeClock(time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)),
		meterSvc:     ts.meters,
		readingSvc:   ts.readings,
		reportSvc:    ts.reports,
		pdf:          ts.pdf,
		paymentSvc:   ts.payments,
		invoiceSvc:   ts.invoices,
		dashboardSvc: ts.dashboard,
	}
	srv.registerAPIRoutes()
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

// -- Tests --

func TestWaterMeterErrorsUseLegacyBody(t *testing.T) {
	ts := newTestServer(t)
	ts.meters.On("Get", mock.Anything, "abc").Return(nil, waterdomain.ErrInvalidID)
	ts.meters.On("Get", mock.Anything, "9").Return(nil, waterdomain.ErrMeterNotFound)

	resp := ts.do(http.MethodGet, "/api/water/meters/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, map[string]any{"error": "Valid water_meter_id is required"}, decode(t, resp))

	resp = ts.do(http.MethodGet, "/api/water/meters/9", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, map[string]any{"error": "Water meter not found"}, decode(t, resp))
}

func TestUpdateWaterMeterRejectsBadIDBeforeService(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPut, "/api/water/meters/0", `{"meter_number":"WM-9"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	ts.meters.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateAndDeleteWaterMeter(t *testing.T) {
	ts := newTestServer(t)
	ts.meters.On("Create", mock.Anything, waterdomain.CreateMeterRequest{ApartmentID: 3, MeterNumber: "WM-003"}).
		Return(&waterdomain.WaterMeter{WaterMeterID: 12, ApartmentID: 3, MeterNumber: "WM-003"}, nil)
	ts.meters.On("Delete", mock.Anything, "12").Return(nil)

	resp := ts.do(http.MethodPost, "/api/water/meters", `{"apartment_id":3,"meter_number":"WM-003"}`)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, float64(12), decode(t, resp)["water_meter_id"])

	resp = ts.do(http.MethodDelete, "/api/water/meters/12", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Water meter deleted successfully", decode(t, resp)["message"])
	ts.meters.AssertExpectations(t)
}

func TestReadingErrorsUseSuccessBody(t *testing.T) {
	ts := newTestServer(t)
	ts.readings.On("Get", mock.Anything, "5").Return(nil, waterdomain.ErrReadingNotFound)

	resp := ts.do(http.MethodGet, "/api/water/readings/5", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "Water reading not found"}, decode(t, resp))
}

func TestCreateReadingMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPost, "/api/water/readings", `{"water_meter_reading":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Missing required fields", decode(t, resp)["error"])
	ts.readings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBulkCreateReadings(t *testing.T) {
	ts := newTestServer(t)
	value := 42.5
	reqs := []waterdomain.ReadingRequest{{WaterMeterID: 1, ReadingDate: "2024-03-01", WaterMeterReading: &value}}
	ts.readings.On("BulkCreate", mock.Anything, reqs).Return(&waterdomain.BulkResult{
		BatchID:  "1771",
		Readings: []waterdomain.WaterReading{{ReadingID: 90, WaterMeterID: 1, WaterMeterReading: 42.5}},
	}, nil)

	resp := ts.do(http.MethodPost, "/api/water/readings/bulk",
		`[{"water_meter_id":1,"reading_date":"2024-03-01","water_meter_reading":42.5}]`)
	require.Equal(t, http.StatusCreated, resp.Code)

	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "1771", body["batch_id"])
	require.Len(t, body["data"], 1)
}

func TestBulkCreateRejectsNonArray(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPost, "/api/water/readings/bulk", `{"water_meter_id":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Request body must be a non-empty array of water readings", decode(t, resp)["error"])
}

func TestBulkCreateInvalidItem(t *testing.T) {
	ts := newTestServer(t)
	ts.readings.On("BulkCreate", mock.Anything, mock.Anything).
		Return(nil, errors.Join(errors.New("readings[1]"), waterdomain.ErrInvalidBatchItem))

	resp := ts.do(http.MethodPost, "/api/water/readings/bulk", `[{"water_meter_id":1},{}]`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Each reading must include water_meter_id, reading_date, and water_meter_reading", decode(t, resp)["error"])
}

func TestBulkCreateUndecodableItemInArray(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPost, "/api/water/readings/bulk", `[{"water_meter_id":"5"}]`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Each reading must include water_meter_id, reading_date, and water_meter_reading", decode(t, resp)["error"])
	ts.readings.AssertNotCalled(t, "BulkCreate", mock.Anything, mock.Anything)

	resp = ts.do(http.MethodPost, "/api/water/readings/bulk", `"not a batch"`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Request body must be a non-empty array of water readings", decode(t, resp)["error"])
}

func TestStoreErrorsExposeMessage(t *testing.T) {
	ts := newTestServer(t)
	ts.readings.On("List", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	resp := ts.do(http.MethodGet, "/api/water/readings", "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "dial tcp: connection refused"}, decode(t, resp))
}

func TestWaterReportPDF(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodGet, "/api/water/report/pdf", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, ts.pdf.called)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="water-usage-report-2024-03-20.pdf"`, resp.Header().Get("Content-Disposition"))
}

func TestWaterReportFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.reports.err = errors.New("report query failed")

	resp := ts.do(http.MethodGet, "/api/water/report", "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "report query failed", decode(t, resp)["error"])
}

func TestMonthlyRevenueMonthsParam(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodGet, "/api/payments/revenue/monthly?months=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid number of months", decode(t, resp)["error"])

	resp = ts.do(http.MethodGet, "/api/payments/revenue/monthly?months=0", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.do(http.MethodGet, "/api/payments/revenue/monthly", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, ts.payments.monthsSeen)
}

func TestCreatePayment(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPost, "/api/payments", `{"tenancy_id":2,"payment_date":"2024-03-01","amount_paid":500}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, map[string]any{"message": "Payment created", "payment_id": float64(41)}, decode(t, resp))

	resp = ts.do(http.MethodPost, "/api/payments", `{"payment_date":"2024-03-01"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Tenancy ID, payment date, and amount paid are required", decode(t, resp)["error"])
}

func TestInvoiceRoutes(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodGet, "/api/invoices", "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	require.Len(t, body["data"], 1)

	resp = ts.do(http.MethodGet, "/api/invoices/3", "")
	require.Equal(t, http.StatusOK, resp.Code)
	data := decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, "INV-3", data["invoice_number"])

	resp = ts.do(http.MethodGet, "/api/invoices/4", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	body = decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invoice not found", body["error"])

	resp = ts.do(http.MethodPost, "/api/invoices",
		`{"tenancy_id":1,"invoice_number":"INV-12","month_billed":"2024-03","date_billed":"2024-03-01","due_date":"2024-03-10"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	data = decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, float64(12), data["invoice_id"])

	resp = ts.do(http.MethodPost, "/api/invoices", `{"invoice_number":"INV-12"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Tenancy ID, invoice number, month billed, date billed, and due date are required", decode(t, resp)["error"])
}

func TestPatchInvoice(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPatch, "/api/invoices", `{"invoice_id":3,"status":"Closed"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Invoice updated successfully", body["message"])
	require.NotNil(t, ts.invoices.updated.Status)
	assert.Equal(t, "Closed", *ts.invoices.updated.Status)
	assert.Nil(t, ts.invoices.updated.AmountPaid)

	resp = ts.do(http.MethodPatch, "/api/invoices", `{"status":"Closed"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invoice ID is required", decode(t, resp)["error"])

	resp = ts.do(http.MethodPatch, "/api/invoices", `{"invoice_id":3}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "At least one field (amount_paid, status) must be provided to update", decode(t, resp)["error"])

	resp = ts.do(http.MethodPatch, "/api/invoices", `{"invoice_id":9,"amount_paid":100}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Invoice not found", decode(t, resp)["error"])
}

func TestInvoicePaymentsUseLegacyBody(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPost, "/api/invoice-payments", `{"invoice_id":3,"payment_id":7,"amount_applied":500}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	body := decode(t, resp)
	assert.Equal(t, "Invoice payment created", body["message"])
	assert.Equal(t, float64(8), body["invoice_payment_id"])

	resp = ts.do(http.MethodPost, "/api/invoice-payments", `{"invoice_id":3}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	body = decode(t, resp)
	assert.Equal(t, "Invoice ID, payment ID, and amount applied are required", body["error"])
	_, hasSuccess := body["success"]
	assert.False(t, hasSuccess)

	resp = ts.do(http.MethodGet, "/api/invoice-payments/8", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(500), decode(t, resp)["amount_applied"])

	resp = ts.do(http.MethodGet, "/api/invoice-payments/99", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	body = decode(t, resp)
	assert.Equal(t, "Invoice payment not found", body["error"])
	_, hasSuccess = body["success"]
	assert.False(t, hasSuccess)
}

func TestDashboardMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodGet, "/api/dashboard/metrics", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(75), decode(t, resp)["occupancyRate"])

	ts.dashboard.err = errors.New("fan-out failed")
	resp = ts.do(http.MethodGet, "/api/dashboard/metrics", "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestClassifyErrorForLog(t *testing.T) {
	kind, code := classifyErrorForLog(waterdomain.ErrMeterNotFound)
	assert.Equal(t, "not_found", kind)
	assert.Equal(t, "water_meter_not_found", code)

	kind, code = classifyErrorForLog(waterdomain.ErrNoFieldsToUpdate)
	assert.Equal(t, "validation_error", kind)
	assert.Equal(t, "no_fields_to_update", code)

	kind, code = classifyErrorForLog(errors.New("boom"))
	assert.Equal(t, "internal_error", kind)
	assert.Equal(t, "store_error", code)
}
