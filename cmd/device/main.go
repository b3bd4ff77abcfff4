// Command device runs a standalone DeviceService server: a simulated
// accelerator memory region exposed over gRPC for a worker process to
// drive with device.Remote, matching a deployment where the engine and
// the accelerator it drives run as separate processes.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/Light-Reflection/byteps/internal/device"
	pb "github.com/Light-Reflection/byteps/proto"
	"google.golang.org/grpc"
)

var (
	port = flag.Int("port", 8081, "listen port for the DeviceService server")
	size = flag.Uint64("size", 64<<20, "simulated device memory size, in bytes")
)

func main() {
	flag.Parse()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		log.Fatalf("device: failed to listen: %v", err)
	}

	dev := device.NewSimulated(*size)
	srv := grpc.NewServer()
	pb.RegisterDeviceServiceServer(srv, device.NewServer(dev))

	log.Printf("device: DeviceService listening at %v (%d bytes)", lis.Addr(), *size)
	if err := srv.Serve(lis); err != nil {
		log.Fatalf("device: failed to serve: %v", err)
	}
}
