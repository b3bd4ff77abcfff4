package pipeline

import (
	"context"

	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

// CopyD2HLoop runs on the root rank only, and only in distributed mode.
// A device-resident partition is copied into its pinned host buffer
// window before advancing; a host-resident partition has nothing to copy.
func CopyD2HLoop(r *registry.Registry) {
	q := r.Queue(workitem.CopyD2H)
	item := q.GetTask()
	if item == nil {
		idle()
		return
	}

	if item.Device != workitem.CPUDeviceID {
		dst := item.CPUBuff[item.Offset : item.Offset+item.Len]
		if err := r.Dev.CopyD2H(context.Background(), dst, item.Offset, item.Len); err != nil {
			fail(r, "copy_d2h", err)
			return
		}
	}

	length := item.Len
	FinishOrProceed(r, item)
	q.ReportFinish(length)
}

// CopyH2DLoop is the mirror of CopyD2HLoop, copying the output window
// back from the pinned host buffer to the device.
func CopyH2DLoop(r *registry.Registry) {
	q := r.Queue(workitem.CopyH2D)
	item := q.GetTask()
	if item == nil {
		idle()
		return
	}

	if item.Device != workitem.CPUDeviceID {
		src := item.CPUBuff[item.Offset : item.Offset+item.Len]
		if err := r.Dev.CopyH2D(context.Background(), item.Offset, src); err != nil {
			fail(r, "copy_h2d", err)
			return
		}
	}

	length := item.Len
	FinishOrProceed(r, item)
	q.ReportFinish(length)
}
