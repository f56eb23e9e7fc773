package util

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage is a point-in-time view of the process and its snapshot volume
type ResourceUsage struct {
	RSSBytes      uint64  `json:"rss_bytes"`
	VMSBytes      uint64  `json:"vms_bytes"`
	DiskFreeBytes uint64  `json:"disk_free_bytes"`
	DiskUsedPct   float64 `json:"disk_used_percent"`
}

// GetResourceUsage reports the memory of the current process and the free space of
// the volume holding dir
func GetResourceUsage(dir string) (*ResourceUsage, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect process: %w", err)
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read process memory: %w", err)
	}

	usage := &ResourceUsage{
		RSSBytes: mem.RSS,
		VMSBytes: mem.VMS,
	}

	if dir != "" {
		du, err := disk.Usage(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read disk usage: %w", err)
		}
		usage.DiskFreeBytes = du.Free
		usage.DiskUsedPct = du.UsedPercent
	}
	return usage, nil
}

func Ptr[T any](v T) *T { return &v }
