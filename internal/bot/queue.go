package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// userQueue выполняет задачи одного пользователя строго в порядке поступления,
// разные пользователи обрабатываются параллельно. Воркер живёт, пока у
// пользователя есть задачи, и завершается на пустой очереди.
type userQueue struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

func newUserQueue() *userQueue {
	return &userQueue{pending: make(map[int64][]func())}
}

func (q *userQueue) Push(userID int64, job func()) {
	q.mu.Lock()
	jobs, running := q.pending[userID]
	q.pending[userID] = append(jobs, job)
	q.mu.Unlock()
	if running {
		return
	}
	q.wg.Add(1)
	go q.drain(userID)
}

func (q *userQueue) drain(userID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		jobs := q.pending[userID]
		if len(jobs) == 0 {
			delete(q.pending, userID)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		q.pending[userID] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}

// Wait ждёт, пока все очереди опустеют. Push после Wait не вызывается.
func (q *userQueue) Wait() {
	q.wg.Wait()
}

func updateUserID(upd tgbotapi.Update) int64 {
	switch {
	case upd.Message != nil && upd.Message.From != nil:
		return upd.Message.From.ID
	case upd.CallbackQuery != nil && upd.CallbackQuery.From != nil:
		return upd.CallbackQuery.From.ID
	}
	return 0
}

// serveUpdates раздаёт апдейты по очередям пользователей до отмены ctx
// или закрытия канала и дожидается обработки уже принятых.
func serveUpdates(ctx context.Context, updates <-chan tgbotapi.Update, handle func(context.Context, tgbotapi.Update)) error {
	q := newUserQueue()
	defer q.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			q.Push(updateUserID(upd), func() { handle(ctx, upd) })
		}
	}
}
