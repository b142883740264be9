package router

import (
	"sort"

	"homehunt-server/internal/transport/http/ez"
)

// Module 一个资源的路由集合
type Module interface{ MountAPI(ez.EZ) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

type Registry struct{ mods []Module }

func (r *Registry) Register(mods ...Module) { r.mods = append(r.mods, mods...) }

// MountAll 按优先级挂载所有模块
func (r *Registry) MountAll(e ez.EZ) {
	mods := append([]Module(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(e)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
