package camelsnake

import (
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// GatewayMarshaler returns a JSON marshaler that reads and writes proto field
// names (snake_case), leaving camelCase to the rewriter.
func GatewayMarshaler() *runtime.JSONPb {
	return &runtime.JSONPb{
		MarshalOptions: protojson.MarshalOptions{
			UseProtoNames:   true,
			EmitUnpopulated: true,
		},
		UnmarshalOptions: protojson.UnmarshalOptions{
			DiscardUnknown: true,
		},
	}
}

// CreateGatewayMux creates a grpc-gateway ServeMux speaking snake_case and
// returns it together with the rewriting handler to serve. Register services
// on the mux; serve the handler.
func CreateGatewayMux(rw *Rewriter, opts ...runtime.ServeMuxOption) (*runtime.ServeMux, http.Handler) {
	marshaler := GatewayMarshaler()

	// Prepend our options
	allOpts := []runtime.ServeMuxOption{
		runtime.WithMarshalerOption(runtime.MIMEWildcard, marshaler),
	}

	// Add user-provided options
	allOpts = append(allOpts, opts...)

	mux := runtime.NewServeMux(allOpts...)

	onError := rw.config.ErrorHandler
	if onError == nil {
		onError = GatewayErrorHandler(mux, marshaler)
	}

	return mux, rw.middleware(mux, onError)
}

// GatewayErrorHandler renders rewrite failures through the mux's error
// handler as gRPC statuses
func GatewayErrorHandler(mux *runtime.ServeMux, marshaler runtime.Marshaler) ErrorHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		runtime.HTTPError(r.Context(), mux, marshaler, w, r, GRPCStatus(err).Err())
	}
}

// GRPCStatus converts a rewrite error to a gRPC status. Client payload
// problems are InvalidArgument with the failure detail, anything else is
// Internal with a generic message.
func GRPCStatus(err error) *status.Status {
	code := StatusCode(err)
	switch code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return status.New(codes.InvalidArgument, clientMessage(code, err))
	default:
		return status.New(codes.Internal, clientMessage(code, err))
	}
}
