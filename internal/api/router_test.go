package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-service/internal/adapters/memrepo"
	"starmap-service/internal/api/dto"
	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
)

const testToken = "gm-secret"

func fixtureWorld(t *testing.T, hexStr, name, uwpStr, pbgStr string) *domain.World {
	t.Helper()

	hex, err := domain.ParseHex(hexStr)
	require.NoError(t, err)
	uwp, err := domain.ParseUWP(uwpStr)
	require.NoError(t, err)
	pbg, err := domain.ParsePBG(pbgStr)
	require.NoError(t, err)
	return &domain.World{Hex: hex, Name: name, UWP: uwp, PBG: pbg}
}

// newTestRouter serves Spinward Reach with one flag-hidden world (0605) and
// one overlay-concealed world (0504).
func newTestRouter(t *testing.T, token string) http.Handler {
	t.Helper()

	regina := fixtureWorld(t, "0101", "Regina", "A788899-C", "801")
	regina.Bases = "NS"
	ruie := fixtureWorld(t, "0203", "Ruie", "C776977-7", "200")
	ruie.Zone = domain.ZoneAmber
	yori := fixtureWorld(t, "0504", "Yori", "E560565-5", "510")
	darkmoon := fixtureWorld(t, "0605", "Darkmoon", "X122000-0", "000")
	darkmoon.Zone = domain.ZoneRed
	darkmoon.Hidden = true

	sec := &domain.Sector{Name: "Spinward Reach", Abbreviation: "Spin"}
	sec.Subsectors[0] = "Cronor"

	store, err := memrepo.Load(&ports.SectorData{
		Sector: sec,
		Worlds: []*domain.World{regina, ruie, yori, darkmoon},
		Routes: []domain.XBoatRoute{{From: regina.Hex, To: ruie.Hex}},
	})
	require.NoError(t, err)

	overlayPath := filepath.Join(t.TempDir(), "notes.yaml")
	overlayYAML := "sector: Spinward Reach\nconcealed: [\"0504\"]\nnotes:\n  \"0605\": Secret naval depot\n"
	require.NoError(t, os.WriteFile(overlayPath, []byte(overlayYAML), 0o600))
	overlay, err := referee.LoadOverlay(overlayPath)
	require.NoError(t, err)

	return NewRouter(store, nil, overlay, token)
}

func doRequest(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set(RefereeTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func worldsOf(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()

	var res dto.ListWorldsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	out := make([]string, 0, len(res.Worlds))
	for _, w := range res.Worlds {
		out = append(out, w.Hex)
	}
	return out
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListSectorsEndpoint(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodGet, "/sectors", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListSectorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Sectors, 1)
	assert.Equal(t, "Spinward Reach", res.Sectors[0].Name)
	assert.Equal(t, []string{"Cronor"}, res.Sectors[0].Subsectors)
	assert.Equal(t, 2, res.Sectors[0].WorldCount)

	rec = doRequest(t, router, http.MethodGet, "/sectors", testToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 4, res.Sectors[0].WorldCount)
}

func TestWorldsEndpoint(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodGet, "/worlds?sector=Spin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"0101", "0203"}, worldsOf(t, rec))

	rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Spin", testToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"0101", "0203", "0504", "0605"}, worldsOf(t, rec))

	rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Spin&subsector=a", testToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"0101", "0203", "0504", "0605"}, worldsOf(t, rec))

	rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Spin&subsector=AB", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/worlds", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Deneb", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorldDetailEndpoint(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodGet, "/worlds?sector=Spin&hex=0101", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var world dto.WorldResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &world))
	assert.Equal(t, "Regina", world.Name)
	assert.Equal(t, "A788899-C", world.UWP)
	assert.Equal(t, []string{"Ri"}, world.TradeCodes)
	assert.Equal(t, "A", world.Subsector)
	assert.Empty(t, world.Note)

	// Concealment: flag-hidden and overlay-concealed worlds 404 publicly.
	for _, hex := range []string{"0605", "0504"} {
		rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Spin&hex="+hex, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "hex %s", hex)
	}

	rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Spin&hex=0605", testToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &world))
	assert.Equal(t, "Darkmoon", world.Name)
	assert.True(t, world.Hidden)
	assert.Equal(t, "Secret naval depot", world.Note)

	rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Spin&hex=banana", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Spin&hex=3340", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJumpMapEndpoint(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodGet, "/jumpmap?sector=Spin&hex=0101&range=3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.JumpMapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Worlds, 2)
	assert.Equal(t, "0101", res.Worlds[0].Hex)
	assert.Equal(t, 0, res.Worlds[0].Parsecs)
	assert.Equal(t, "0203", res.Worlds[1].Hex)
	assert.Equal(t, 3, res.Worlds[1].Parsecs)

	rec = doRequest(t, router, http.MethodGet, "/jumpmap?sector=Spin&hex=0101&range=9", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/jumpmap?sector=Spin", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodGet, "/search?"+url.Values{
		"sector": {"Spinward Reach"},
		"q":      {"rui"},
	}.Encode(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"0203"}, worldsOf(t, rec))

	rec = doRequest(t, router, http.MethodGet, "/search?sector=Spin&gasgiant=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"0101"}, worldsOf(t, rec))

	rec = doRequest(t, router, http.MethodGet, "/search?sector=Spin&zone=Q", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/search?sector=Spin&starport=Z", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlotRouteEndpoint(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodPost, "/routes", "",
		`{"sector":"Spin","from":"0101","to":"0203","jump":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var plan dto.RoutePlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "Spinward Reach", plan.Sector)
	require.Len(t, plan.Legs, 1)
	assert.Equal(t, "Regina", plan.Legs[0].FromName)
	assert.Equal(t, "Ruie", plan.Legs[0].ToName)
	assert.Equal(t, 3, plan.TotalParsecs)

	// Default jump rating is 2; these worlds sit three parsecs apart.
	rec = doRequest(t, router, http.MethodPost, "/routes", "",
		`{"sector":"Spin","from":"0101","to":"0203"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/routes", "",
		`{"sector":"Spin","from":"0101","to":"0203","jump":7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/routes", "",
		`{"sector":"Spin","from":"0101","to":"0203","warp":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/routes", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestRefereeToken(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodGet, "/worlds?sector=Spin", "wrong-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A server without a configured token rejects any offered token.
	open := newTestRouter(t, "")
	rec = doRequest(t, open, http.MethodGet, "/worlds?sector=Spin", "anything", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, open, http.MethodGet, "/worlds?sector=Spin", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadSectorEndpoint(t *testing.T) {
	router := newTestRouter(t, testToken)

	doc := `{"name":"Trojan Reach","abbreviation":"Troj","worlds":[{"hex":"0101","name":"Tobia","uwp":"A444999-C"}]}`

	rec := doRequest(t, router, http.MethodPost, "/sectors", "", doc)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/sectors", testToken, doc)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res dto.UploadSectorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, "Trojan Reach", res.Sector)
	assert.Equal(t, 1, res.Worlds)

	rec = doRequest(t, router, http.MethodGet, "/worlds?sector=Troj", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"0101"}, worldsOf(t, rec))

	rec = doRequest(t, router, http.MethodPost, "/sectors", testToken,
		`{"name":"Broken","worlds":[{"hex":"01x1","name":"Bad","uwp":"A444999-C"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Without a configured token, uploads stay open.
	open := newTestRouter(t, "")
	rec = doRequest(t, open, http.MethodPost, "/sectors", "", doc)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter(t, testToken)

	rec := doRequest(t, router, http.MethodGet, "/export?sector=Spin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Regina")
	assert.NotContains(t, body, "Darkmoon")
	assert.NotContains(t, body, "0605")
	assert.NotContains(t, body, "Yori")
	assert.NotContains(t, body, "0504")

	rec = doRequest(t, router, http.MethodGet, "/export?sector=Spin", testToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Darkmoon")
	assert.Contains(t, body, "Yori")
	assert.Contains(t, body, `"hidden": true`)

	// Path form, the one the catalog client uses.
	rec = doRequest(t, router, http.MethodGet, "/sectors/Spinward%20Reach/export", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Regina")
	assert.NotContains(t, rec.Body.String(), "Darkmoon")

	rec = doRequest(t, router, http.MethodGet, "/sectors/Spin/elsewhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
