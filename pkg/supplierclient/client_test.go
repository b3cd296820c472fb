package supplierclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDeliverSignsPlainJSONBody(t *testing.T) {
	body := []byte(`{"batchId":"b-1","items":[]}`)
	var gotPath, gotAuth, gotSig, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotSig = r.Header.Get("X-Webhook-Signature")
		gotType = r.Header.Get("X-Webhook-Event")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"eventId":"evt-1","status":"completed","notifications":[],"alerts":[{}]}`))
	}))
	defer server.Close()

	client := Client{Endpoint: server.URL + "/", Source: "sanmar", Token: "tok", Secret: "shh"}
	receipt, err := client.Deliver(context.Background(), Delivery{Body: body, EventType: "inventory.low_stock"})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if gotPath != "/webhooks/suppliers/sanmar" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotSig != Sign(body, "shh") {
		t.Fatalf("unexpected signature: %q", gotSig)
	}
	if gotType != "inventory.low_stock" {
		t.Fatalf("unexpected event type header: %q", gotType)
	}
	if string(gotBody) != string(body) {
		t.Fatalf("unexpected body: %s", gotBody)
	}
	if receipt.EventID != "evt-1" || receipt.Status != "completed" || len(receipt.Alerts) != 1 {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestDeliverCloudEventsBinaryMode(t *testing.T) {
	body := []byte(`{"products":[]}`)
	var gotCEType, gotSig string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCEType = r.Header.Get("Ce-Type")
		gotSig = r.Header.Get("X-Webhook-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"eventId":"evt-2","status":"completed"}`))
	}))
	defer server.Close()

	client := Client{Endpoint: server.URL, Source: "ssactivewear", Token: "tok", Secret: "shh", CloudEvents: true}
	if _, err := client.Deliver(context.Background(), Delivery{Body: body}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if gotCEType != "com.ssactivewear.inventory.updated" {
		t.Fatalf("unexpected ce-type: %q", gotCEType)
	}
	if string(gotBody) != string(body) {
		t.Fatalf("binary mode must carry the raw payload, got %s", gotBody)
	}
	if gotSig != Sign(body, "shh") {
		t.Fatalf("unexpected signature: %q", gotSig)
	}
}

func TestDeliverReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := Client{Endpoint: server.URL, Source: "sanmar", Token: "tok", Secret: "shh"}
	_, err := client.Deliver(context.Background(), Delivery{Body: []byte(`{}`)})
	if err == nil || !strings.Contains(err.Error(), "invalid signature") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestDeliverRequiresCredentials(t *testing.T) {
	if _, err := (Client{Endpoint: "http://localhost"}).Deliver(context.Background(), Delivery{}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
