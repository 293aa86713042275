package materials

import "sync"

// cacheKey 以材料值本身为键，同名的不同材料互不干扰
type cacheKey struct {
	material   Material
	wavelength float64
}

// Cache 一次运行内共享的折射率缓存，按 (材料, 波长) 索引，可并发使用
type Cache struct {
	mu     sync.RWMutex
	values map[cacheKey]complex128
}

// NewCache 创建空缓存
func NewCache() *Cache {
	return &Cache{values: make(map[cacheKey]complex128)}
}

// Index 查询折射率，命中缓存直接返回；查询失败不缓存。nil 缓存直接透传。
func (c *Cache) Index(m Material, wavelength float64) (complex128, error) {
	if c == nil {
		return m.Index(wavelength)
	}
	key := cacheKey{material: m, wavelength: wavelength}
	c.mu.RLock()
	n, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return n, nil
	}
	n, err := m.Index(wavelength)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.values[key] = n
	c.mu.Unlock()
	return n, nil
}

// Len 已缓存条目数
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}
