package venue

import (
	"context"
	"sync"
)

// AssetIndexCache - инжектируемый read-through кэш symbol → asset index
//
// Venue адресует активы внутренним числовым индексом. Кэш загружает
// индекс лениво через инжектированный loader и отдаёт из памяти до
// явной инвалидации. Никакого скрытого process-wide состояния: кэш
// создаётся при старте и передаётся клиенту зависимостью.
type AssetIndexCache struct {
	loader func(ctx context.Context, symbol string) (int, error)

	mu      sync.RWMutex
	indexes map[string]int
}

// NewAssetIndexCache создаёт кэш с заданным loader'ом
func NewAssetIndexCache(loader func(ctx context.Context, symbol string) (int, error)) *AssetIndexCache {
	return &AssetIndexCache{
		loader:  loader,
		indexes: make(map[string]int),
	}
}

// Get возвращает индекс актива, загружая его при промахе
func (c *AssetIndexCache) Get(ctx context.Context, symbol string) (int, error) {
	c.mu.RLock()
	idx, ok := c.indexes[symbol]
	c.mu.RUnlock()
	if ok {
		return idx, nil
	}

	idx, err := c.loader(ctx, symbol)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.indexes[symbol] = idx
	c.mu.Unlock()
	return idx, nil
}

// Invalidate сбрасывает закэшированный индекс символа
//
// Вызывается при смене листинга активов на venue; следующий Get
// перечитает индекс через loader.
func (c *AssetIndexCache) Invalidate(symbol string) {
	c.mu.Lock()
	delete(c.indexes, symbol)
	c.mu.Unlock()
}

// InvalidateAll сбрасывает весь кэш
func (c *AssetIndexCache) InvalidateAll() {
	c.mu.Lock()
	c.indexes = make(map[string]int)
	c.mu.Unlock()
}
