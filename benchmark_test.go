// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro_test

import (
	"context"
	"testing"

	"code.hybscloud.com/koro"
)

// BenchmarkRunSyncPure measures the per-coroutine cost: spawn,
// resume, return.
func BenchmarkRunSyncPure(b *testing.B) {
	for b.Loop() {
		_ = koro.RunSync(koro.NewActor(func(*koro.Fx) int { return 42 }))
	}
}

// BenchmarkHandleContext measures a clause supplying two contexts.
func BenchmarkHandleContext(b *testing.B) {
	env := koro.Handlers{"n": 6, "m": 7}
	for b.Loop() {
		g := koro.NewActor(func(fx *koro.Fx) int {
			return fx.Get("n").(int) * fx.Get("m").(int)
		})
		_ = koro.RunSync(koro.Try(g).Handle(env))
	}
}

// BenchmarkHandleRecovery measures the failure interception path.
func BenchmarkHandleRecovery(b *testing.B) {
	env := koro.Handlers{"E": func(any) any { return -1 }}
	for b.Loop() {
		g := koro.NewActor(func(fx *koro.Fx) int {
			fx.Throw("E", "boom")
			return 0
		})
		_ = koro.RunSync(koro.Try(g).Handle(env))
	}
}

// BenchmarkAllSyncTasks measures scheduler overhead for tasks that
// never suspend.
func BenchmarkAllSyncTasks(b *testing.B) {
	ctx := context.Background()
	for b.Loop() {
		tasks := make([]*koro.Actor[int], 8)
		for i := range tasks {
			v := i
			tasks[i] = koro.NewActor(func(*koro.Fx) int { return v })
		}
		_, _ = koro.Run(ctx, koro.All(koro.Tasks(tasks...)))
	}
}

// BenchmarkCommunicatePair measures one rendezvous round trip.
func BenchmarkCommunicatePair(b *testing.B) {
	for b.Loop() {
		sender := koro.NewActor(func(fx *koro.Fx) any {
			fx.Send("box", 1)
			return nil
		})
		receiver := koro.NewActor(func(fx *koro.Fx) any {
			return fx.Wait("box")
		})
		_, _ = koro.Communicate(map[string]koro.Coroutine{"s": sender, "r": receiver})
	}
}
