package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatusUpdate(t *testing.T) {
	r, err := Render(TemplateStatusUpdate, map[string]string{
		"carrier":      "FedEx Freight",
		"pro_number":   "WE123456789",
		"last_status":  "in_transit",
		"reference_id": "WW1741600000abc123",
	})
	require.NoError(t, err)
	assert.Contains(t, r.Subject, "WE123456789")
	assert.Contains(t, r.Subject, "WW1741600000abc123")
	assert.Contains(t, r.Body, "Last known status: in_transit")
}

func TestRenderEscalationIsUrgent(t *testing.T) {
	r, err := Render(TemplateEscalation, map[string]string{
		"carrier":      "YRC Freight",
		"pro_number":   "WE987654321",
		"issue":        "shipment missing for 3 days",
		"reference_id": "WW1741600000def456",
	})
	require.NoError(t, err)
	assert.Contains(t, r.Subject, "URGENT")
	assert.Contains(t, r.Body, "shipment missing for 3 days")
}

func TestRenderMissingOptionalVars(t *testing.T) {
	r, err := Render(TemplateStatusUpdate, map[string]string{
		"carrier":      "XPO Logistics",
		"pro_number":   "1234567",
		"reference_id": "ref",
	})
	require.NoError(t, err)
	assert.NotContains(t, r.Body, "Last known status")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("no_such_template", nil)
	require.Error(t, err)
}

func TestTemplateNames(t *testing.T) {
	names := TemplateNames()
	assert.Equal(t, []string{
		TemplateCustomerNotification,
		TemplateEscalation,
		TemplateIdentifierRequest,
		TemplateStatusUpdate,
	}, names)
}

func TestDirectoryContact(t *testing.T) {
	dir := DefaultDirectory()
	assert.Equal(t, "freight.support@fedex.com", dir.Contact("FedEx Freight"))
	assert.Equal(t, "customercare@yrcfreight.com", dir.Contact("yrc freight"))
	// Unknown carriers get a conventional address.
	assert.Equal(t, "customer.service@rlcarriers.com", dir.Contact("R+L Carriers"))
	assert.Equal(t, "customer.service@carrier.com", dir.Contact(""))
}

func TestLoadDirectoryMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carriers.yaml")
	content := `carriers:
  - name: FedEx Freight
    email: override@fedex.example.com
  - name: Averitt Express
    email: support@averitt.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	dir, err := LoadDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, "override@fedex.example.com", dir.Contact("FedEx Freight"))
	assert.Equal(t, "support@averitt.example.com", dir.Contact("Averitt Express"))
	// Defaults survive for carriers the file does not mention.
	assert.Equal(t, "customercare@yrcfreight.com", dir.Contact("YRC Freight"))
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	result, err := rec.Send(context.Background(), Message{
		To:       "freight.support@fedex.com",
		Template: TemplateStatusUpdate,
		Vars: map[string]string{
			"carrier":      "FedEx Freight",
			"pro_number":   "WE123456789",
			"reference_id": "ref",
		},
		Priority: PriorityRoutine,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.MessageID)
	require.Len(t, rec.Sent(), 1)
	assert.Equal(t, TemplateStatusUpdate, rec.Sent()[0].Template)

	rec.Fail = true
	_, err = rec.Send(context.Background(), Message{Template: TemplateEscalation, Vars: map[string]string{}})
	require.Error(t, err)
	assert.Len(t, rec.Sent(), 1)
}

func TestHTTPTransportSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "Bearer mail-key", r.Header.Get("Authorization"))

		var req relayRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "support@wwexlabs.com", req.From)
		assert.Equal(t, "freight.support@fedex.com", req.To)
		assert.Contains(t, req.Subject, "WE123456789")
		assert.Equal(t, PriorityUrgent, req.Priority)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message_id": "msg-42"}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, "mail-key", "support@wwexlabs.com", nil, nil)
	result, err := tr.Send(context.Background(), Message{
		To:       "freight.support@fedex.com",
		Template: TemplateEscalation,
		Vars: map[string]string{
			"carrier":      "FedEx Freight",
			"pro_number":   "WE123456789",
			"issue":        "stuck at terminal",
			"reference_id": "ref",
		},
		Priority: PriorityUrgent,
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-42", result.MessageID)
}

func TestHTTPTransportRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay backlog", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, "", "support@wwexlabs.com", nil, nil)
	_, err := tr.Send(context.Background(), Message{
		Template: TemplateCustomerNotification,
		Vars:     map[string]string{"pro_number": "x", "update": "y", "reference_id": "z"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
