package classbooking_service_api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "classbooking.v1.ClassBookingService"

const (
	listClassesMethod  = "/" + ServiceName + "/ListClasses"
	bookClassMethod    = "/" + ServiceName + "/BookClass"
	listBookingsMethod = "/" + ServiceName + "/ListBookings"
)

type ClassBookingServiceServer interface {
	ListClasses(ctx context.Context, req *ListClassesRequest) (*ListClassesResponse, error)
	BookClass(ctx context.Context, req *BookClassRequest) (*BookClassResponse, error)
	ListBookings(ctx context.Context, req *ListBookingsRequest) (*ListBookingsResponse, error)
}

func RegisterClassBookingServiceServer(s grpc.ServiceRegistrar, srv ClassBookingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClassBookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListClasses", Handler: listClassesHandler},
		{MethodName: "BookClass", Handler: bookClassHandler},
		{MethodName: "ListBookings", Handler: listBookingsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "classbooking/v1/classbooking.proto",
}

func listClassesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListClassesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClassBookingServiceServer).ListClasses(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listClassesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClassBookingServiceServer).ListClasses(ctx, req.(*ListClassesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func bookClassHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BookClassRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClassBookingServiceServer).BookClass(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: bookClassMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClassBookingServiceServer).BookClass(ctx, req.(*BookClassRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listBookingsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListBookingsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClassBookingServiceServer).ListBookings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listBookingsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClassBookingServiceServer).ListBookings(ctx, req.(*ListBookingsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the service with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ListClasses(ctx context.Context, in *ListClassesRequest, opts ...grpc.CallOption) (*ListClassesResponse, error) {
	out := new(ListClassesResponse)
	if err := c.cc.Invoke(ctx, listClassesMethod, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BookClass(ctx context.Context, in *BookClassRequest, opts ...grpc.CallOption) (*BookClassResponse, error) {
	out := new(BookClassResponse)
	if err := c.cc.Invoke(ctx, bookClassMethod, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListBookings(ctx context.Context, in *ListBookingsRequest, opts ...grpc.CallOption) (*ListBookingsResponse, error) {
	out := new(ListBookingsResponse)
	if err := c.cc.Invoke(ctx, listBookingsMethod, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
