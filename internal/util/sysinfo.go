package util

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemInfo holds information about the host the bot runs on.
type SystemInfo struct {
	Hostname     string `json:"hostname"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	GoVersion    string `json:"go_version"`
	CPUModel     string `json:"cpu_model"`
	CPUCores     int    `json:"cpu_cores"`
	TotalMemory  uint64 `json:"total_memory_mb"`
	HostUptime   string `json:"host_uptime"`
}

// GetSystemInfo gathers system information. Fields that cannot be read are
// left at their zero value.
func GetSystemInfo() SystemInfo {
	info := SystemInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		GoVersion:    runtime.Version(),
		CPUCores:     runtime.NumCPU(),
	}

	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}

	if hostInfo, err := host.Info(); err == nil {
		info.OS = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		info.HostUptime = (time.Duration(hostInfo.Uptime) * time.Second).String()
	}

	if cpuInfo, err := cpu.Info(); err == nil && len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = memInfo.Total / (1024 * 1024)
	}

	return info
}

// ResourceUsage is a point-in-time usage sample.
type ResourceUsage struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemPercent    float64 `json:"mem_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskFreeBytes uint64  `json:"disk_free_bytes"`
}

// SampleUsage reads CPU, memory and disk usage. dataPath selects the volume
// for the disk figures; an empty path skips them.
func SampleUsage(dataPath string) (ResourceUsage, error) {
	var usage ResourceUsage

	percentages, err := cpu.Percent(0, false)
	if err != nil {
		return usage, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	if len(percentages) > 0 {
		usage.CPUPercent = percentages[0]
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return usage, fmt.Errorf("failed to read memory usage: %w", err)
	}
	usage.MemPercent = memInfo.UsedPercent

	if dataPath != "" {
		d, err := disk.Usage(dataPath)
		if err != nil {
			return usage, fmt.Errorf("failed to read disk usage for %s: %w", dataPath, err)
		}
		usage.DiskPercent = d.UsedPercent
		usage.DiskFreeBytes = d.Free
	}

	return usage, nil
}

// FileExists checks if a file or directory exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
func EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
