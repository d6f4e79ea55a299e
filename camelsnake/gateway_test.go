package camelsnake

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bhatti/camelsnake/casing"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

func TestCreateGatewayMux(t *testing.T) {
	rw := NewRewriter(nil)
	mux, handler := CreateGatewayMux(rw)

	var seen string
	err := mux.HandlePath("POST", "/v1/fields", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		data, _ := io.ReadAll(r.Body)
		seen = string(data)

		field := &descriptorpb.FieldDescriptorProto{}
		if err := GatewayMarshaler().Unmarshal(data, field); err != nil {
			t.Errorf("Unmarshal() error = %v", err)
		}

		out, err := GatewayMarshaler().Marshal(field)
		if err != nil {
			t.Errorf("Marshal() error = %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(out)
	})
	if err != nil {
		t.Fatalf("HandlePath() error = %v", err)
	}

	req := httptest.NewRequest("POST", "/v1/fields", strings.NewReader(`{"name":"title","typeName":".tasks.Title","jsonName":"title"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if seen != `{"name":"title","type_name":".tasks.Title","json_name":"title"}` {
		t.Errorf("gateway saw %s", seen)
	}

	v, err := casing.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	obj := v.(*casing.Object)
	if got, _ := obj.Get("typeName"); got != casing.String(".tasks.Title") {
		t.Errorf("typeName = %v in %s", got, rec.Body.String())
	}
	if _, ok := obj.Get("type_name"); ok {
		t.Errorf("snake_case key leaked: %s", rec.Body.String())
	}
}

func TestCreateGatewayMux_Errors(t *testing.T) {
	rw := NewBuilder().MaxBodyBytes(64).Build()
	mux, handler := CreateGatewayMux(rw)

	called := false
	mux.HandlePath("POST", "/v1/tasks", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		called = true
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"taskTitle":}`, http.StatusBadRequest},
		{"too large", `{"taskTitle":"` + strings.Repeat("x", 100) + `"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/tasks", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}

			v, err := casing.Decode(rec.Body.Bytes())
			if err != nil {
				t.Fatalf("error body is not JSON: %v (%s)", err, rec.Body.String())
			}
			code, _ := v.(*casing.Object).Get("code")
			if code != casing.Number("3") {
				t.Errorf("code = %v, want 3 (InvalidArgument)", code)
			}
		})
	}

	if called {
		t.Error("gateway handler ran for a rejected request")
	}
}

func TestCreateGatewayMux_UserOptions(t *testing.T) {
	rw := NewRewriter(nil)
	mux, handler := CreateGatewayMux(rw, runtime.WithIncomingHeaderMatcher(func(key string) (string, bool) {
		return key, true
	}))

	mux.HandlePath("GET", "/v1/ping", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pong_at":"now"}`))
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/ping", nil))

	if rec.Body.String() != `{"pongAt":"now"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGRPCStatus(t *testing.T) {
	badRequest := &DecodeError{Direction: Incoming, Err: casing.ErrSyntax}
	tooLarge := &DecodeError{Direction: Incoming, Err: ErrBodyTooLarge}

	tests := []struct {
		name     string
		err      error
		expected codes.Code
		message  string
	}{
		{"bad request", badRequest, codes.InvalidArgument, badRequest.Error()},
		{"too large", tooLarge, codes.InvalidArgument, tooLarge.Error()},
		{"bad response", &DecodeError{Direction: Outgoing, Err: errors.New(`key "secret_key": bad`)}, codes.Internal, "Internal Server Error"},
		{"unknown", errors.New("boom"), codes.Internal, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := GRPCStatus(tt.err)
			if st.Code() != tt.expected {
				t.Errorf("GRPCStatus() code = %v, want %v", st.Code(), tt.expected)
			}
			if st.Message() != tt.message {
				t.Errorf("GRPCStatus() message = %q, want %q", st.Message(), tt.message)
			}
		})
	}
}

func TestGatewayMarshaler(t *testing.T) {
	out, err := GatewayMarshaler().Marshal(&descriptorpb.FieldDescriptorProto{
		Name:     proto.String("id"),
		TypeName: proto.String(".tasks.ID"),
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "type_name") {
		t.Errorf("Marshal() = %s, want proto field names", out)
	}
}
