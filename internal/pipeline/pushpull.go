package pipeline

import (
	"context"

	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

// PushLoop runs on the root rank only, in distributed mode. The payload is
// the pinned host buffer window when the partition originated on a
// device, or the input tensor window directly when it is already on
// host. The push's completion continuation advances the item and reports
// bytes finished on this queue — Push never blocks waiting for the
// parameter server.
func PushLoop(r *registry.Registry) {
	q := r.Queue(workitem.Push)
	item := q.GetTask()
	if item == nil {
		idle()
		return
	}

	var payload []byte
	if item.Device != workitem.CPUDeviceID {
		payload = item.CPUBuff[item.Offset : item.Offset+item.Len]
	} else {
		payload = item.Tensor.Data()[item.Offset : item.Offset+item.Len]
	}
	length := item.Len

	r.PS.ZPush(context.Background(), item.Key, payload, func(err error) {
		if err != nil {
			fail(r, "push", err)
			return
		}
		FinishOrProceed(r, item)
		q.ReportFinish(length)
	})
}

// PullLoop is the mirror of PushLoop: it issues an asynchronous pull into
// the pinned host buffer (or the output tensor window directly, for a
// host-resident partition), and its continuation advances the item.
func PullLoop(r *registry.Registry) {
	q := r.Queue(workitem.Pull)
	item := q.GetTask()
	if item == nil {
		idle()
		return
	}

	var dst []byte
	if item.Device != workitem.CPUDeviceID {
		dst = item.CPUBuff[item.Offset : item.Offset+item.Len]
	} else {
		dst = item.Output.Data()[item.Offset : item.Offset+item.Len]
	}
	length := item.Len

	r.PS.ZPull(context.Background(), item.Key, func(val []byte, err error) {
		if err != nil {
			fail(r, "pull", err)
			return
		}
		copy(dst, val)
		FinishOrProceed(r, item)
		q.ReportFinish(length)
	})
}
