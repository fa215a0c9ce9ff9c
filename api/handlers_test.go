package api_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	source := config.NewSource(store)
	orchestrator := payroll.NewOrchestrator(payroll.NewCalculator(source))
	handler := api.NewHandler(orchestrator, source, store)

	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func groupDTO(id string) api.RawGroupDTO {
	return api.RawGroupDTO{
		ID:      id,
		Site:    "Puerto Norte",
		Workers: []string{"w-1", "w-2"},
		Schedule: api.ScheduleDTO{
			DateStart: "2025-03-10",
			DateEnd:   "2025-03-15",
			TimeStart: "06:00",
			TimeEnd:   "14:00",
			Task:      "estiba",
		},
		TariffDetails: api.TariffDetailsDTO{
			UnitOfMeasure:     "JORNAL",
			Multipliers:       map[string]float64{"OD": 1.0, "FAC_OD": 1.2},
			PaysheetTariff:    100,
			FacturationTariff: 120,
			Compensatory:      "NO",
		},
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

// =============================================================================
// CALCULATION ENDPOINT
// =============================================================================

func TestCalculate_HappyPath(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/operations/calculate", api.CalculateRequest{
		Operation: "op-77",
		DateStart: "2025-03-10",
		DateEnd:   "2025-03-15",
		Groups:    []api.RawGroupDTO{groupDTO("g-1")},
		Distributions: map[string]map[string]float64{
			"g-1": {"HOD": 8},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.BatchResultDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Len(t, result.GroupResults, 1)
	assert.NotEmpty(t, result.RunID)
	// 8h x 2 workers x 100 x 1.0 plus compensatory (flag NO still accrues
	// on payroll) against billing 8 x 2 x 120 x 1.2.
	assert.Greater(t, result.TotalPayroll, 1600.0)
	assert.InDelta(t, 2304, result.TotalBilling, 1e-6)
	assert.False(t, math.IsNaN(result.TotalPayroll))

	detail := result.GroupResults[0].Payroll.Details.HoursDetail["OD"]
	assert.InDelta(t, 8, detail.Hours, 1e-9, "audit detail survives serialization")
}

func TestCalculate_GroupWithBadDateSkipped(t *testing.T) {
	// An unparsable schedule date is that group's fault, not the batch's.
	server := newTestServer(t)

	bad := groupDTO("g-bad")
	bad.Schedule.DateStart = "10/03/2025"

	resp := postJSON(t, server.URL+"/api/operations/calculate", api.CalculateRequest{
		Groups: []api.RawGroupDTO{groupDTO("g-1"), bad},
		Distributions: map[string]map[string]float64{
			"g-1":   {"HOD": 8},
			"g-bad": {"HOD": 8},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.BatchResultDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.GroupResults, 1)
	assert.Equal(t, "g-1", result.GroupResults[0].GroupID)
}

func TestCalculate_EmptyBody(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/operations/calculate", api.CalculateRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// SETTINGS ENDPOINTS
// =============================================================================

func TestSettings_DefaultThenUpdate(t *testing.T) {
	server := newTestServer(t)

	// Default before any write.
	resp, err := http.Get(server.URL + "/api/settings/WEEKLY_HOURS")
	require.NoError(t, err)
	var setting api.SettingDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&setting))
	resp.Body.Close()
	assert.Equal(t, "44", setting.Value)

	// Update.
	payload, _ := json.Marshal(api.SettingRequest{Value: "46"})
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/settings/WEEKLY_HOURS", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Read back.
	resp, err = http.Get(server.URL + "/api/settings/WEEKLY_HOURS")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&setting))
	resp.Body.Close()
	assert.Equal(t, "46", setting.Value)
}

func TestSettings_UnknownName(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/settings/NOT_A_SETTING")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSettings_NonNumericValueRejected(t *testing.T) {
	server := newTestServer(t)

	payload, _ := json.Marshal(api.SettingRequest{Value: "lots"})
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/settings/WEEKLY_HOURS", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// REPORT AND HEALTH
// =============================================================================

func TestSettlementReport_ReturnsPDF(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/reports/settlement", api.CalculateRequest{
		Operation: "op-77",
		Groups:    []api.RawGroupDTO{groupDTO("g-1")},
		Distributions: map[string]map[string]float64{
			"g-1": {"HOD": 8},
		},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
