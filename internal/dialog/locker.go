package dialog

import "sync"

// Locker выдаёт по мьютексу на пользователя: два быстрых нажатия
// одного клиента обрабатываются по очереди, разные клиенты не ждут друг друга.
type Locker struct {
	mu    sync.Mutex
	users map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{users: make(map[int64]*userLock)}
}

// Lock блокирует пользователя и возвращает функцию разблокировки.
func (l *Locker) Lock(userID int64) func() {
	l.mu.Lock()
	ul, ok := l.users[userID]
	if !ok {
		ul = &userLock{}
		l.users[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.users, userID)
		}
		l.mu.Unlock()
	}
}
