// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package encoder

import (
	"sync"

	gopsutilprocess "github.com/shirou/gopsutil/v3/process"
)

// usageSampler 使用 gopsutil 采集子进程 CPU 和内存
type usageSampler struct {
	mu   sync.RWMutex
	proc *gopsutilprocess.Process
}

func (u *usageSampler) attach(pid int) {
	proc, err := gopsutilprocess.NewProcess(int32(pid))
	if err != nil {
		return
	}
	u.mu.Lock()
	u.proc = proc
	u.mu.Unlock()
}

func (u *usageSampler) detach() {
	u.mu.Lock()
	u.proc = nil
	u.mu.Unlock()
}

func (u *usageSampler) current() (cpu float64, rss uint64) {
	u.mu.RLock()
	proc := u.proc
	u.mu.RUnlock()
	if proc == nil {
		return 0, 0
	}
	if cpuPct, err := proc.CPUPercent(); err == nil {
		cpu = cpuPct
	}
	if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
		rss = memInfo.RSS
	}
	return cpu, rss
}
