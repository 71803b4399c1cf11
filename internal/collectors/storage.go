package collectors

import (
	"os"
	"strings"
	"syscall"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// skippedMountPrefixes hide kernel and runtime pseudo-mounts from the
// storage list.
var skippedMountPrefixes = []string{"/proc", "/sys", "/run", "/dev/pts"}

// StorageCollector lists mounted real filesystems with usage figures.
type StorageCollector struct {
	statfs func(path string, buf *syscall.Statfs_t) error
}

func NewStorageCollector() *StorageCollector {
	return &StorageCollector{statfs: syscall.Statfs}
}

// Collect reads the current mount table and sizes each real device mount.
// The result replaces the previous storage list wholesale.
func (c *StorageCollector) Collect() ([]state.DiskInfo, error) {
	content, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return nil, err
	}

	disks := make([]state.DiskInfo, 0, 4)
	for _, entry := range parseMounts(string(content)) {
		var stat syscall.Statfs_t
		if err := c.statfs(entry.mountpoint, &stat); err != nil {
			continue
		}

		total := stat.Blocks * uint64(stat.Bsize)
		free := stat.Bavail * uint64(stat.Bsize)
		disks = append(disks, state.DiskInfo{
			Device:     entry.device,
			Mountpoint: entry.mountpoint,
			FSType:     entry.fsType,
			UsedBytes:  total - free,
			TotalBytes: total,
		})
	}
	return disks, nil
}

type mountEntry struct {
	device     string
	mountpoint string
	fsType     string
}

// parseMounts filters /proc/mounts down to real block-device mounts.
func parseMounts(content string) []mountEntry {
	var entries []mountEntry
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		entry := mountEntry{device: fields[0], mountpoint: fields[1], fsType: fields[2]}
		if !strings.HasPrefix(entry.device, "/dev") ||
			strings.Contains(entry.device, "loop") ||
			entry.fsType == "tmpfs" {
			continue
		}
		if hasAnyPrefix(entry.mountpoint, skippedMountPrefixes) {
			continue
		}

		entries = append(entries, entry)
	}
	return entries
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
