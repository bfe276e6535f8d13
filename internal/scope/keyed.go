// Package scope implements per-entity serialization scopes.
//
// A scope is a lock keyed by an entity id. Operations on different keys run
// concurrently; operations on the same key are admitted one at a time in the
// order they started waiting. Waiting honours context cancellation, and
// entries are dropped once no holder or waiter remains.
package scope

import (
	"context"
	"sync"
)

type entry struct {
	token chan struct{}
	refs  int
}

// Keyed - набор мьютексов, индексированных ключом сущности
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

// Acquire ждет освобождения ключа и возвращает функцию освобождения.
// Функция идемпотентна; вызывать ее нужно через defer.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{token: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	// Заблокированные отправители обслуживаются каналом в порядке очереди
	select {
	case e.token <- struct{}{}:
	case <-ctx.Done():
		k.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.token
			k.unref(key, e)
		})
	}, nil
}

// Do выполняет fn под ключом; освобождение гарантировано и при панике
func (k *Keyed) Do(ctx context.Context, key string, fn func() error) error {
	release, err := k.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Len возвращает число ключей, у которых есть владелец или ожидающие
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func (k *Keyed) unref(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 && k.locks[key] == e {
		delete(k.locks, key)
	}
}
