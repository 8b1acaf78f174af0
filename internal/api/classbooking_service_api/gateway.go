package classbooking_service_api

import (
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GatewayPrefix is where the REST gateway is mounted next to the gin routes.
const GatewayPrefix = "/v1"

// NewGatewayMux builds a grpc-gateway mux that forwards REST calls to the
// gRPC service through client.
func NewGatewayMux(client *Client) (*runtime.ServeMux, error) {
	mux := runtime.NewServeMux(runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONBuiltin{}))

	routes := []struct {
		method, pattern string
		handler         runtime.HandlerFunc
	}{
		{http.MethodGet, GatewayPrefix + "/classes", listClassesGateway(mux, client)},
		{http.MethodPost, GatewayPrefix + "/book", bookClassGateway(mux, client)},
		{http.MethodGet, GatewayPrefix + "/bookings", listBookingsGateway(mux, client)},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return nil, err
		}
	}
	return mux, nil
}

func listClassesGateway(mux *runtime.ServeMux, client *Client) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		_, outbound := runtime.MarshalerForRequest(mux, r)
		ctx, err := runtime.AnnotateContext(r.Context(), mux, r, listClassesMethod, runtime.WithHTTPPathPattern(GatewayPrefix+"/classes"))
		if err != nil {
			runtime.HTTPError(r.Context(), mux, outbound, w, r, err)
			return
		}

		resp, err := client.ListClasses(ctx, &ListClassesRequest{Timezone: r.URL.Query().Get("timezone")})
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}
		writeGatewayJSON(w, outbound, http.StatusOK, resp.Classes)
	}
}

func bookClassGateway(mux *runtime.ServeMux, client *Client) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		inbound, outbound := runtime.MarshalerForRequest(mux, r)
		ctx, err := runtime.AnnotateContext(r.Context(), mux, r, bookClassMethod, runtime.WithHTTPPathPattern(GatewayPrefix+"/book"))
		if err != nil {
			runtime.HTTPError(r.Context(), mux, outbound, w, r, err)
			return
		}

		var req BookClassRequest
		if err := inbound.NewDecoder(r.Body).Decode(&req); err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, status.Errorf(codes.InvalidArgument, "invalid request body: %v", err))
			return
		}

		resp, err := client.BookClass(ctx, &req)
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}
		writeGatewayJSON(w, outbound, http.StatusCreated, resp.Confirmation)
	}
}

func listBookingsGateway(mux *runtime.ServeMux, client *Client) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		_, outbound := runtime.MarshalerForRequest(mux, r)
		ctx, err := runtime.AnnotateContext(r.Context(), mux, r, listBookingsMethod, runtime.WithHTTPPathPattern(GatewayPrefix+"/bookings"))
		if err != nil {
			runtime.HTTPError(r.Context(), mux, outbound, w, r, err)
			return
		}

		q := r.URL.Query()
		resp, err := client.ListBookings(ctx, &ListBookingsRequest{Email: q.Get("email"), Timezone: q.Get("timezone")})
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}
		writeGatewayJSON(w, outbound, http.StatusOK, resp.Bookings)
	}
}

func writeGatewayJSON(w http.ResponseWriter, m runtime.Marshaler, code int, v any) {
	body, err := m.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", m.ContentType(v))
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
