package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/slotbook/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "slotbook-test",
			TLS:      false,
		},
		Topic: "slotbook/events",
		QoS:   0,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on uninitialised client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}
	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestHealthCheck(t *testing.T) {
	client := &Client{cfg: testConfig()}

	t.Run("disconnected client is unhealthy", func(t *testing.T) {
		err := client.HealthCheck(context.Background())
		if !errors.Is(err, ErrNotConnected) {
			t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
		}
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := client.HealthCheck(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
		}
	})
}

func TestPublish_Validation(t *testing.T) {
	client := &Client{cfg: testConfig()}

	t.Run("rejects empty topic", func(t *testing.T) {
		err := client.Publish("", []byte("x"), 0, false)
		if !errors.Is(err, ErrInvalidTopic) {
			t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
		}
	})

	t.Run("rejects invalid QoS", func(t *testing.T) {
		err := client.Publish("slotbook/events", []byte("x"), 3, false)
		if !errors.Is(err, ErrInvalidQoS) {
			t.Errorf("Publish() error = %v, want ErrInvalidQoS", err)
		}
	})

	t.Run("rejects oversized payload", func(t *testing.T) {
		payload := make([]byte, maxPayloadSize+1)
		err := client.Publish("slotbook/events", payload, 0, false)
		if !errors.Is(err, ErrPublishFailed) {
			t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
		}
	})

	t.Run("fails when disconnected", func(t *testing.T) {
		err := client.Publish("slotbook/events", []byte("x"), 0, false)
		if !errors.Is(err, ErrNotConnected) {
			t.Errorf("Publish() error = %v, want ErrNotConnected", err)
		}
	})
}

func TestPublishEvent_UsesConfiguredTopic(t *testing.T) {
	// Disconnected client: the call must at least pass topic validation
	// before failing on the connection check.
	client := &Client{cfg: testConfig()}

	err := client.PublishEvent([]byte(`{"type":"refresh"}`))
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishEvent() error = %v, want ErrNotConnected", err)
	}

	client.cfg.Topic = ""
	err = client.PublishEvent([]byte(`{"type":"refresh"}`))
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("PublishEvent() with empty topic error = %v, want ErrInvalidTopic", err)
	}
}

func TestBuildClientOptions(t *testing.T) {
	t.Run("plain TCP broker URL", func(t *testing.T) {
		opts := buildClientOptions(testConfig())

		if len(opts.Servers) != 1 {
			t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
		}
		if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
			t.Errorf("broker URL = %q, want tcp://127.0.0.1:1883", got)
		}
		if opts.ClientID != "slotbook-test" {
			t.Errorf("client ID = %q, want slotbook-test", opts.ClientID)
		}
		if !opts.AutoReconnect {
			t.Error("expected auto-reconnect to be enabled")
		}
	})

	t.Run("TLS broker URL", func(t *testing.T) {
		cfg := testConfig()
		cfg.Broker.TLS = true
		opts := buildClientOptions(cfg)

		if got := opts.Servers[0].Scheme; got != "ssl" {
			t.Errorf("scheme = %q, want ssl", got)
		}
		if opts.TLSConfig == nil {
			t.Error("expected TLS config to be set")
		}
	})

	t.Run("credentials applied when set", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.Username = "slot"
		cfg.Auth.Password = "book"
		opts := buildClientOptions(cfg)

		if opts.Username != "slot" {
			t.Errorf("username = %q, want slot", opts.Username)
		}
		if opts.Password != "book" {
			t.Errorf("password = %q, want book", opts.Password)
		}
	})
}

func TestStatusPayloads(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantStatus string
		wantReason string
	}{
		{"online", buildOnlinePayload("slotbook-test"), "online", ""},
		{"graceful offline", buildOfflinePayload("slotbook-test"), "offline", "graceful_shutdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded map[string]string
			if err := json.Unmarshal([]byte(tt.payload), &decoded); err != nil {
				t.Fatalf("payload is not valid JSON: %v", err)
			}
			if decoded["status"] != tt.wantStatus {
				t.Errorf("status = %q, want %q", decoded["status"], tt.wantStatus)
			}
			if decoded["client_id"] != "slotbook-test" {
				t.Errorf("client_id = %q, want slotbook-test", decoded["client_id"])
			}
			if tt.wantReason != "" && decoded["reason"] != tt.wantReason {
				t.Errorf("reason = %q, want %q", decoded["reason"], tt.wantReason)
			}
		})
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "slotbook-test")

	if !opts.WillEnabled {
		t.Fatal("expected LWT to be enabled")
	}
	if opts.WillTopic != statusTopic {
		t.Errorf("will topic = %q, want %q", opts.WillTopic, statusTopic)
	}
	if !opts.WillRetained {
		t.Error("expected will message to be retained")
	}
	if !strings.Contains(string(opts.WillPayload), "unexpected_disconnect") {
		t.Errorf("will payload = %q, want unexpected_disconnect reason", opts.WillPayload)
	}
}
