package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datachat-resultview/config"
	"datachat-resultview/internal/export"
	"datachat-resultview/internal/service"
	"datachat-resultview/internal/store"
)

type snapshotBody struct {
	ResultId string `json:"resultId"`
	Snapshot struct {
		View            string `json:"view"`
		ChartCompatible bool   `json:"chartCompatible"`
		PlainText       string `json:"plainText"`
		Table           struct {
			FilteredCount int    `json:"filteredCount"`
			EmptyState    string `json:"emptyState"`
		} `json:"table"`
		Chart struct {
			Placeholder string          `json:"placeholder"`
			Spec        json.RawMessage `json:"spec"`
		} `json:"chart"`
	} `json:"snapshot"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Result: config.ResultConfig{TTL: time.Minute, MaxPayloadBytes: 1 << 16},
		Table:  config.TableConfig{RowHeight: 36, Overscan: 10},
		Chart:  config.ChartConfig{DefaultKind: "bar", DefaultIndexKey: "branch_name", Width: 320, Height: 240},
	}
	r := gin.New()
	RegisterResultRoutes(r, NewResultController(service.NewResultService(cfg, store.NewInMemoryResultStore(), nil)))
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) snapshotBody {
	t.Helper()
	var body snapshotBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func register(t *testing.T, r http.Handler, payload string) snapshotBody {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/results", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}

func TestResultController_RegisterAndGet(t *testing.T) {
	r := newRouter(t)
	created := register(t, r, `{"answer": [{"branch_name":"NY","deposits":100},{"branch_name":"LA","deposits":200}]}`)
	assert.NotEmpty(t, created.ResultId)
	assert.Equal(t, "chart", created.Snapshot.View)
	assert.True(t, created.Snapshot.ChartCompatible)
	assert.NotEmpty(t, created.Snapshot.Chart.Spec)

	w := do(t, r, http.MethodGet, "/api/v1/results/"+created.ResultId, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ResultId, decode(t, w).ResultId)

	w = do(t, r, http.MethodGet, "/api/v1/results/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultController_FallbackViews(t *testing.T) {
	r := newRouter(t)

	empty := register(t, r, `[]`)
	assert.Equal(t, "table", empty.Snapshot.View)
	assert.Equal(t, "no_data", empty.Snapshot.Table.EmptyState)
	assert.NotEmpty(t, empty.Snapshot.Chart.Placeholder)

	text := register(t, r, `this is not json`)
	assert.Equal(t, "this is not json", text.Snapshot.PlainText)
	assert.False(t, text.Snapshot.ChartCompatible)
}

func TestResultController_TableInteractions(t *testing.T) {
	r := newRouter(t)
	id := register(t, r, `[{"city":"Oslo","n":3},{"city":"Bergen","n":1},{"city":"Oslo Sentrum","n":2}]`).ResultId
	base := "/api/v1/results/" + id

	w := do(t, r, http.MethodPut, base+"/view", `{"view":"table"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "table", decode(t, w).Snapshot.View)

	w = do(t, r, http.MethodPut, base+"/view", `{"view":"pivot"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, base+"/table/sort", `{"column":"n"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodPost, base+"/table/sort", `{"column":"missing"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, base+"/table/search", `{"term":"oslo"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode(t, w).Snapshot.Table.FilteredCount, "zero debounce filters at once")

	w = do(t, r, http.MethodGet, base+"/table/window?scrollTop=0&viewportHeight=360", "")
	require.Equal(t, http.StatusOK, w.Code)
	var window struct {
		Start int                      `json:"start"`
		End   int                      `json:"end"`
		Rows  []map[string]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &window))
	assert.Equal(t, 0, window.Start)
	assert.Equal(t, 2, window.End)
	require.Len(t, window.Rows, 2)
	assert.Equal(t, "Oslo Sentrum", window.Rows[0]["city"])

	w = do(t, r, http.MethodGet, base+"/table/window?scrollTop=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, base+"/export/table", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), export.TableFileName)
	headers, rows, err := export.ReadTable(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"City", "N"}, headers)
	assert.Len(t, rows, 2)
}

func TestResultController_AggregationAndChartExport(t *testing.T) {
	r := newRouter(t)
	id := register(t, r, `[{"branch_name":"NY","deposits":100},{"branch_name":"LA","deposits":200}]`).ResultId
	base := "/api/v1/results/" + id

	w := do(t, r, http.MethodPut, base+"/aggregation", `{"groupBy":"branch_name","reducer":"avg","chartKind":"line"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPut, base+"/aggregation", `{"reducer":"median"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, base+"/export/chart?resolution=high", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "line_graph_high.png")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = do(t, r, http.MethodGet, base+"/export/chart?resolution=8k", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, base+"/export/pivot", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), export.PivotFileName)
	headers, rows, err := export.ReadTable(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Branch Name", "Value"}, headers)
	assert.Equal(t, [][]string{{"NY", "100"}, {"LA", "200"}}, rows)
}

func TestResultController_ChartExportNothingToPlot(t *testing.T) {
	r := newRouter(t)
	id := register(t, r, `{"answer":{"message":"no results"}}`).ResultId

	w := do(t, r, http.MethodGet, "/api/v1/results/"+id+"/export/chart", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))

	w = do(t, r, http.MethodGet, "/api/v1/results/"+id+"/export/pivot", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestResultController_ReloadAndDiscard(t *testing.T) {
	r := newRouter(t)
	id := register(t, r, `[{"a":"x"}]`).ResultId
	base := "/api/v1/results/" + id

	w := do(t, r, http.MethodPut, base+"/data", `[{"a":"x","n":5}]`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chart", decode(t, w).Snapshot.View)

	w = do(t, r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodPut, base+"/data", `[]`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
