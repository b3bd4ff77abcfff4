// Code generated by hand in the style of protoc-gen-go (legacy,
// github.com/golang/protobuf APIv1 message shape) from dsml.proto. A real
// build would run `protoc --go_out=. --go-grpc_out=. dsml.proto`; this file
// exists so the module compiles without invoking protoc, using the same
// Reset/String/ProtoMessage + struct-tag shape protoc-gen-go emitted before
// it switched to the rawDesc-table format, which google.golang.org/protobuf
// still supports via reflection-built legacy descriptors.
package proto

import (
	"context"

	protobuf "github.com/golang/protobuf/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- messages ----

type DataChunk struct {
	Data []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *DataChunk) Reset()         { *m = DataChunk{} }
func (m *DataChunk) String() string { return protobuf.CompactTextString(m) }
func (m *DataChunk) ProtoMessage()  {}
func (m *DataChunk) GetData() []byte {
	if m != nil {
		return m.Data
	}
	return nil
}

type WriteRequest struct {
	DstOffset uint64 `protobuf:"varint,1,opt,name=dst_offset,json=dstOffset,proto3" json:"dst_offset,omitempty"`
}

func (m *WriteRequest) Reset()         { *m = WriteRequest{} }
func (m *WriteRequest) String() string { return protobuf.CompactTextString(m) }
func (m *WriteRequest) ProtoMessage()  {}
func (m *WriteRequest) GetDstOffset() uint64 {
	if m != nil {
		return m.DstOffset
	}
	return 0
}

type WriteResponse struct {
	Success bool `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
}

func (m *WriteResponse) Reset()         { *m = WriteResponse{} }
func (m *WriteResponse) String() string { return protobuf.CompactTextString(m) }
func (m *WriteResponse) ProtoMessage()  {}
func (m *WriteResponse) GetSuccess() bool {
	if m != nil {
		return m.Success
	}
	return false
}

type ReadRequest struct {
	SrcOffset uint64 `protobuf:"varint,1,opt,name=src_offset,json=srcOffset,proto3" json:"src_offset,omitempty"`
	NumBytes  uint64 `protobuf:"varint,2,opt,name=num_bytes,json=numBytes,proto3" json:"num_bytes,omitempty"`
}

func (m *ReadRequest) Reset()         { *m = ReadRequest{} }
func (m *ReadRequest) String() string { return protobuf.CompactTextString(m) }
func (m *ReadRequest) ProtoMessage()  {}
func (m *ReadRequest) GetSrcOffset() uint64 {
	if m != nil {
		return m.SrcOffset
	}
	return 0
}
func (m *ReadRequest) GetNumBytes() uint64 {
	if m != nil {
		return m.NumBytes
	}
	return 0
}

type SignalEnvelope struct {
	SrcLocalRank  int32  `protobuf:"varint,1,opt,name=src_local_rank,json=srcLocalRank,proto3" json:"src_local_rank,omitempty"`
	Kind          int32  `protobuf:"varint,2,opt,name=kind,proto3" json:"kind,omitempty"`
	Key           uint64 `protobuf:"varint,3,opt,name=key,proto3" json:"key,omitempty"`
	DestLocalRank int32  `protobuf:"varint,4,opt,name=dest_local_rank,json=destLocalRank,proto3" json:"dest_local_rank,omitempty"`
}

func (m *SignalEnvelope) Reset()         { *m = SignalEnvelope{} }
func (m *SignalEnvelope) String() string { return protobuf.CompactTextString(m) }
func (m *SignalEnvelope) ProtoMessage()  {}
func (m *SignalEnvelope) GetSrcLocalRank() int32 {
	if m != nil {
		return m.SrcLocalRank
	}
	return 0
}
func (m *SignalEnvelope) GetKind() int32 {
	if m != nil {
		return m.Kind
	}
	return 0
}
func (m *SignalEnvelope) GetKey() uint64 {
	if m != nil {
		return m.Key
	}
	return 0
}
func (m *SignalEnvelope) GetDestLocalRank() int32 {
	if m != nil {
		return m.DestLocalRank
	}
	return 0
}

type SendAck struct {
	Success bool `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
}

func (m *SendAck) Reset()         { *m = SendAck{} }
func (m *SendAck) String() string { return protobuf.CompactTextString(m) }
func (m *SendAck) ProtoMessage()  {}
func (m *SendAck) GetSuccess() bool {
	if m != nil {
		return m.Success
	}
	return false
}

type SubscribeRequest struct {
	LocalRank int32 `protobuf:"varint,1,opt,name=local_rank,json=localRank,proto3" json:"local_rank,omitempty"`
}

func (m *SubscribeRequest) Reset()         { *m = SubscribeRequest{} }
func (m *SubscribeRequest) String() string { return protobuf.CompactTextString(m) }
func (m *SubscribeRequest) ProtoMessage()  {}
func (m *SubscribeRequest) GetLocalRank() int32 {
	if m != nil {
		return m.LocalRank
	}
	return 0
}

// ---- DeviceService ----

type DeviceServiceClient interface {
	Write(ctx context.Context, opts ...grpc.CallOption) (DeviceService_WriteClient, error)
	Read(ctx context.Context, in *ReadRequest, opts ...grpc.CallOption) (DeviceService_ReadClient, error)
}

type deviceServiceClient struct {
	cc *grpc.ClientConn
}

func NewDeviceServiceClient(cc *grpc.ClientConn) DeviceServiceClient {
	return &deviceServiceClient{cc}
}

type DeviceService_WriteClient interface {
	Send(*DataChunk) error
	CloseAndRecv() (*WriteResponse, error)
}

type deviceServiceWriteClient struct {
	grpc.ClientStream
}

func (c *deviceServiceClient) Write(ctx context.Context, opts ...grpc.CallOption) (DeviceService_WriteClient, error) {
	stream, err := c.cc.NewStream(ctx, &_DeviceService_serviceDesc.Streams[0], "/dsml.DeviceService/Write", opts...)
	if err != nil {
		return nil, err
	}
	return &deviceServiceWriteClient{stream}, nil
}

func (x *deviceServiceWriteClient) Send(m *DataChunk) error {
	return x.ClientStream.SendMsg(m)
}

func (x *deviceServiceWriteClient) CloseAndRecv() (*WriteResponse, error) {
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(WriteResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type DeviceService_ReadClient interface {
	Recv() (*DataChunk, error)
}

type deviceServiceReadClient struct {
	grpc.ClientStream
}

func (c *deviceServiceClient) Read(ctx context.Context, in *ReadRequest, opts ...grpc.CallOption) (DeviceService_ReadClient, error) {
	stream, err := c.cc.NewStream(ctx, &_DeviceService_serviceDesc.Streams[1], "/dsml.DeviceService/Read", opts...)
	if err != nil {
		return nil, err
	}
	x := &deviceServiceReadClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (x *deviceServiceReadClient) Recv() (*DataChunk, error) {
	m := new(DataChunk)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type DeviceServiceServer interface {
	Write(DeviceService_WriteServer) error
	Read(*ReadRequest, DeviceService_ReadServer) error
}

type UnimplementedDeviceServiceServer struct{}

func (*UnimplementedDeviceServiceServer) Write(DeviceService_WriteServer) error {
	return status.Errorf(codes.Unimplemented, "method Write not implemented")
}
func (*UnimplementedDeviceServiceServer) Read(*ReadRequest, DeviceService_ReadServer) error {
	return status.Errorf(codes.Unimplemented, "method Read not implemented")
}

func RegisterDeviceServiceServer(s *grpc.Server, srv DeviceServiceServer) {
	s.RegisterService(&_DeviceService_serviceDesc, srv)
}

type DeviceService_WriteServer interface {
	SendAndClose(*WriteResponse) error
	Recv() (*DataChunk, error)
	grpc.ServerStream
}

type deviceServiceWriteServer struct {
	grpc.ServerStream
}

func (x *deviceServiceWriteServer) SendAndClose(m *WriteResponse) error {
	return x.ServerStream.SendMsg(m)
}

func (x *deviceServiceWriteServer) Recv() (*DataChunk, error) {
	m := new(DataChunk)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func _DeviceService_Write_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(DeviceServiceServer).Write(&deviceServiceWriteServer{stream})
}

type DeviceService_ReadServer interface {
	Send(*DataChunk) error
	grpc.ServerStream
}

type deviceServiceReadServer struct {
	grpc.ServerStream
}

func (x *deviceServiceReadServer) Send(m *DataChunk) error {
	return x.ServerStream.SendMsg(m)
}

func _DeviceService_Read_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(ReadRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DeviceServiceServer).Read(m, &deviceServiceReadServer{stream})
}

var _DeviceService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "dsml.DeviceService",
	HandlerType: (*DeviceServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Write",
			Handler:       _DeviceService_Write_Handler,
			ClientStreams: true,
		},
		{
			StreamName:    "Read",
			Handler:       _DeviceService_Read_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "dsml.proto",
}

// ---- SignalService ----

type SignalServiceClient interface {
	Send(ctx context.Context, in *SignalEnvelope, opts ...grpc.CallOption) (*SendAck, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (SignalService_SubscribeClient, error)
}

type signalServiceClient struct {
	cc *grpc.ClientConn
}

func NewSignalServiceClient(cc *grpc.ClientConn) SignalServiceClient {
	return &signalServiceClient{cc}
}

func (c *signalServiceClient) Send(ctx context.Context, in *SignalEnvelope, opts ...grpc.CallOption) (*SendAck, error) {
	out := new(SendAck)
	err := c.cc.Invoke(ctx, "/dsml.SignalService/Send", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type SignalService_SubscribeClient interface {
	Recv() (*SignalEnvelope, error)
}

type signalServiceSubscribeClient struct {
	grpc.ClientStream
}

func (c *signalServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (SignalService_SubscribeClient, error) {
	stream, err := c.cc.NewStream(ctx, &_SignalService_serviceDesc.Streams[0], "/dsml.SignalService/Subscribe", opts...)
	if err != nil {
		return nil, err
	}
	x := &signalServiceSubscribeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (x *signalServiceSubscribeClient) Recv() (*SignalEnvelope, error) {
	m := new(SignalEnvelope)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type SignalServiceServer interface {
	Send(context.Context, *SignalEnvelope) (*SendAck, error)
	Subscribe(*SubscribeRequest, SignalService_SubscribeServer) error
}

type UnimplementedSignalServiceServer struct{}

func (*UnimplementedSignalServiceServer) Send(context.Context, *SignalEnvelope) (*SendAck, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Send not implemented")
}
func (*UnimplementedSignalServiceServer) Subscribe(*SubscribeRequest, SignalService_SubscribeServer) error {
	return status.Errorf(codes.Unimplemented, "method Subscribe not implemented")
}

func RegisterSignalServiceServer(s *grpc.Server, srv SignalServiceServer) {
	s.RegisterService(&_SignalService_serviceDesc, srv)
}

func _SignalService_Send_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SignalEnvelope)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SignalServiceServer).Send(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/dsml.SignalService/Send",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SignalServiceServer).Send(ctx, req.(*SignalEnvelope))
	}
	return interceptor(ctx, in, info, handler)
}

type SignalService_SubscribeServer interface {
	Send(*SignalEnvelope) error
	grpc.ServerStream
}

type signalServiceSubscribeServer struct {
	grpc.ServerStream
}

func (x *signalServiceSubscribeServer) Send(m *SignalEnvelope) error {
	return x.ServerStream.SendMsg(m)
}

func _SignalService_Subscribe_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(SignalServiceServer).Subscribe(m, &signalServiceSubscribeServer{stream})
}

var _SignalService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "dsml.SignalService",
	HandlerType: (*SignalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Send",
			Handler:    _SignalService_Send_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _SignalService_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "dsml.proto",
}
