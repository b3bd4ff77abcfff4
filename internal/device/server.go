package device

import (
	"fmt"
	"io"

	pb "github.com/Light-Reflection/byteps/proto"
)

// Server exposes a Simulated device over the DeviceService gRPC surface.
// cmd/device registers one Server per process.
type Server struct {
	pb.UnimplementedDeviceServiceServer
	dev *Simulated
}

// NewServer wraps dev for gRPC serving.
func NewServer(dev *Simulated) *Server { return &Server{dev: dev} }

func (s *Server) Write(stream pb.DeviceService_WriteServer) error {
	header, err := stream.Recv()
	if err != nil {
		return fmt.Errorf("device server: missing write header: %w", err)
	}
	dstOffset := decodeOffset(header.Data)

	payload, err := stream.Recv()
	if err != nil {
		return fmt.Errorf("device server: missing write payload: %w", err)
	}

	if err := s.dev.CopyH2D(stream.Context(), dstOffset, payload.Data); err != nil {
		return err
	}

	// Drain any trailing chunks the client might still send before
	// closing; exactly one logical payload is expected per call.
	for {
		if _, err := stream.Recv(); err == io.EOF {
			break
		} else if err != nil {
			return err
		}
	}

	return stream.SendAndClose(&pb.WriteResponse{Success: true})
}

func (s *Server) Read(req *pb.ReadRequest, stream pb.DeviceService_ReadServer) error {
	buf := make([]byte, req.NumBytes)
	if err := s.dev.CopyD2H(stream.Context(), buf, req.SrcOffset, req.NumBytes); err != nil {
		return err
	}
	return stream.Send(&pb.DataChunk{Data: buf})
}
