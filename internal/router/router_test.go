package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"health-directory/internal/adapters/storage/memory"
	"health-directory/internal/adapters/storage/records"
	"health-directory/internal/alert"
	"health-directory/internal/router"
)

const adminRole = "admin"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	hub, err := alert.NewHub(alert.HubConfig{
		Source:       records.NewRemindersRepo(store),
		PollInterval: time.Hour,
		ResyncSpec:   "off",
	})
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	t.Cleanup(func() { hub.Stop(context.Background()) })

	ts := httptest.NewServer(router.NewRouter(router.Options{Store: store, Alerts: hub, DevAuth: true}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_RoleHeaderNeedsDevAuth(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Store: memory.NewStore()}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "GET", "/admin/stats", "user-1", adminRole, nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for role header without dev auth, got %d", st)
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", "", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d body=%s", st, string(body))
	}
}

func TestHTTP_EndToEnd_DirectoryAdmin(t *testing.T) {
	ts := newServer(t)

	// 1) Sin usuario => 401; usuario común => 403
	{
		st, _ := doReq(t, ts.URL, "GET", "/admin/stats", "", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/admin/stats", "user-1", "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for plain user, got %d", st)
		}
	}

	// 2) Admin crea hospital y médico
	var hospitalID string
	{
		st, body := doReq(t, ts.URL, "POST", "/admin/hospitals", "admin-1", adminRole, map[string]any{
			"name":               "Central Hospital",
			"address":            "Main St 1",
			"city":               "Lahore",
			"phone":              "042-111",
			"specialities":       []string{"cardiology"},
			"emergency_services": true,
			"rating":             4.5,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create hospital, got %d body=%s", st, string(body))
		}
		hospitalID = mustID(t, body)
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/admin/doctors", "admin-1", adminRole, map[string]any{
			"hospital_id":      hospitalID,
			"name":             "Dr. Khan",
			"specialization":   "cardiology",
			"rating":           4.8,
			"experience_years": 12,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create doctor, got %d body=%s", st, string(body))
		}
	}

	// 3) Rating fuera de rango => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/admin/hospitals", "admin-1", adminRole, map[string]any{
			"name":    "Bad",
			"address": "x",
			"city":    "x",
			"rating":  7,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid rating, got %d", st)
		}
	}

	// 4) Listado público, filtro por ciudad y detalle con médicos
	{
		st, body := doReq(t, ts.URL, "GET", "/hospitals?city=Lahore&emergency=true", "", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list hospitals, got %d", st)
		}
		var items []map[string]any
		mustJSON(t, body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 hospital, got %d", len(items))
		}

		st, body = doReq(t, ts.URL, "GET", "/hospitals/"+hospitalID, "", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 hospital detail, got %d", st)
		}
		var detail struct {
			Doctors []map[string]any `json:"doctors"`
		}
		mustJSON(t, body, &detail)
		if len(detail.Doctors) != 1 {
			t.Fatalf("expected 1 doctor, got %d", len(detail.Doctors))
		}
	}

	// 5) Hospital con médicos no se borra
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/admin/hospitals/"+hospitalID, "admin-1", adminRole, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 delete hospital with staff, got %d", st)
		}
	}

	// 6) Stats públicas
	{
		st, body := doReq(t, ts.URL, "GET", "/stats", "", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 stats, got %d", st)
		}
		var stats map[string]int
		mustJSON(t, body, &stats)
		if stats["hospitals"] != 1 || stats["doctors"] != 1 {
			t.Fatalf("unexpected stats: %v", stats)
		}
	}
}

func TestHTTP_EndToEnd_PromotedAdmin(t *testing.T) {
	ts := newServer(t)

	// El perfil se crea al primer GET /me/profile
	{
		st, body := doReq(t, ts.URL, "GET", "/me/profile", "user-2", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 me/profile, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "PATCH", "/me/profile", "user-2", "", map[string]any{"city": "Karachi"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch profile, got %d body=%s", st, string(body))
		}
		var p map[string]any
		mustJSON(t, body, &p)
		if p["city"] != "Karachi" {
			t.Fatalf("expected city Karachi, got %v", p["city"])
		}
	}

	// Un admin lo promueve; el rol guardado abre /admin sin header de rol
	{
		st, _ := doReq(t, ts.URL, "GET", "/admin/stats", "user-2", "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before promotion, got %d", st)
		}
		st, body := doReq(t, ts.URL, "PUT", "/admin/users/user-2/role", "admin-1", adminRole, map[string]any{"role": "admin"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set role, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/admin/stats", "user-2", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 admin stats after promotion, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_EndToEnd_RemindersAndAlerts(t *testing.T) {
	ts := newServer(t)
	userID := "patient-1"

	today := time.Now().Format("2006-01-02")

	var reminderID string
	{
		st, body := doReq(t, ts.URL, "POST", "/reminders", userID, "", map[string]any{
			"medicine_name": "Metformin",
			"dosage":        "500mg",
			"frequency":     "twice_daily",
			"start_date":    today,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create reminder, got %d body=%s", st, string(body))
		}
		var r struct {
			ID            string   `json:"id"`
			ReminderTimes []string `json:"reminder_times"`
		}
		mustJSON(t, body, &r)
		reminderID = r.ID
		if len(r.ReminderTimes) != 2 {
			t.Fatalf("expected default twice_daily times, got %v", r.ReminderTimes)
		}
	}

	// Otro usuario no lo ve
	{
		st, _ := doReq(t, ts.URL, "GET", "/reminders/"+reminderID, "someone-else", "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for foreign reminder, got %d", st)
		}
	}

	// Alertas: sin usuario => 401; enable => enabled y hoy con el recordatorio
	{
		st, _ := doReq(t, ts.URL, "POST", "/alerts/enable", "", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 enabling alerts anonymously, got %d", st)
		}

		st, body := doReq(t, ts.URL, "POST", "/alerts/enable", userID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 enable alerts, got %d body=%s", st, string(body))
		}
		var state struct {
			Enabled bool             `json:"enabled"`
			Today   []map[string]any `json:"today"`
		}
		mustJSON(t, body, &state)
		if !state.Enabled || len(state.Today) != 1 {
			t.Fatalf("unexpected alert state: %s", string(body))
		}
	}

	// Pausar lo saca de hoy (el hub se entera por el notifier)
	{
		st, body := doReq(t, ts.URL, "POST", "/reminders/"+reminderID+"/pause", userID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pause, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/alerts", userID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 alert state, got %d", st)
		}
		var state struct {
			Today []map[string]any `json:"today"`
		}
		mustJSON(t, body, &state)
		if len(state.Today) != 0 {
			t.Fatalf("expected paused reminder out of today, got %s", string(body))
		}
	}

	{
		st, _ := doReq(t, ts.URL, "POST", "/alerts/disable", userID, "", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 disable alerts, got %d", st)
		}
	}
}

func TestHTTP_EndToEnd_Blood(t *testing.T) {
	ts := newServer(t)

	// 1) Donante O- se registra
	{
		st, body := doReq(t, ts.URL, "PUT", "/blood/donors/me", "donor-1", "", map[string]any{
			"name":       "Ali",
			"blood_type": "O-",
			"age":        30,
			"weight":     70,
			"location":   "Lahore",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 register donor, got %d body=%s", st, string(body))
		}
	}

	// 2) Compatibles para AB+ incluyen a O-
	{
		st, body := doReq(t, ts.URL, "GET", "/blood/donors/compatible?recipient=AB%2B", "requester-1", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 compatible donors, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		mustJSON(t, body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 compatible donor, got %d", len(items))
		}

		st, _ = doReq(t, ts.URL, "GET", "/blood/donors/compatible?recipient=XY", "requester-1", "", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid recipient, got %d", st)
		}
	}

	// 3) Se apaga la disponibilidad => ya no aparece
	{
		st, _ := doReq(t, ts.URL, "POST", "/blood/donors/me/toggle", "donor-1", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 toggle, got %d", st)
		}
		_, body := doReq(t, ts.URL, "GET", "/blood/donors/compatible?recipient=AB%2B", "requester-1", "", nil)
		var items []map[string]any
		mustJSON(t, body, &items)
		if len(items) != 0 {
			t.Fatalf("expected no donors after toggle, got %d", len(items))
		}
	}

	// 4) Pedido de sangre: sólo el solicitante (o admin) cambia su estado
	var requestID string
	{
		st, body := doReq(t, ts.URL, "POST", "/blood/requests", "requester-1", "", map[string]any{
			"patient_name":  "Sara",
			"blood_type":    "A+",
			"units_needed":  2,
			"hospital_name": "Central Hospital",
			"contact_phone": "0300-1",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create request, got %d body=%s", st, string(body))
		}
		var req struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			Urgency string `json:"urgency"`
		}
		mustJSON(t, body, &req)
		requestID = req.ID
		if req.Status != "pending" || req.Urgency != "medium" {
			t.Fatalf("unexpected defaults: %s", string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "PUT", "/blood/requests/"+requestID+"/status", "stranger", "", map[string]any{"status": "fulfilled"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 status change by stranger, got %d", st)
		}
		st, body := doReq(t, ts.URL, "PUT", "/blood/requests/"+requestID+"/status", "requester-1", "", map[string]any{"status": "fulfilled"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 status change by requester, got %d body=%s", st, string(body))
		}
	}

	// 5) Admin borra el pedido
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/admin/blood/requests/"+requestID, "admin-1", adminRole, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 admin delete request, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/blood/requests/"+requestID, "requester-1", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

// ---------- helpers ----------

func mustID(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &out)
	if out.ID == "" {
		t.Fatalf("missing id in response: %s", string(body))
	}
	return out.ID
}

func mustJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugRole string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugRole != "" {
		req.Header.Set("X-Debug-User-Role", debugRole)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
