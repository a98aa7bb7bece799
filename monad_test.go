// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro_test

import (
	"testing"

	"code.hybscloud.com/koro"
)

func TestBind(t *testing.T) {
	m := koro.Bind(koro.Pure(20), func(x int) *koro.Actor[int] {
		return koro.NewActor(func(fx *koro.Fx) int {
			return x + fx.Get("delta").(int)
		})
	})
	got := koro.RunSync(koro.Try(m).Handle(koro.Handlers{"delta": 22}))
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestMap(t *testing.T) {
	m := koro.Map(koro.Pure(21), func(x int) string {
		if x*2 == 42 {
			return "yes"
		}
		return "no"
	})
	if got := koro.RunSync(m); got != "yes" {
		t.Fatalf("got %q", got)
	}
}

func TestThen(t *testing.T) {
	ran := false
	first := koro.NewActor(func(*koro.Fx) int {
		ran = true
		return 1
	})
	m := koro.Then(first, koro.Pure("second"))
	if got := koro.RunSync(m); got != "second" {
		t.Fatalf("got %q", got)
	}
	if !ran {
		t.Fatal("first actor did not run")
	}
}

func TestBindLeftIdentity(t *testing.T) {
	f := func(x int) *koro.Actor[int] { return koro.Pure(x * 3) }
	left := koro.RunSync(koro.Bind(koro.Pure(14), f))
	right := koro.RunSync(f(14))
	if left != right {
		t.Fatalf("left identity violated: %d != %d", left, right)
	}
}

func TestBracketReleases(t *testing.T) {
	released := false
	m := koro.Bracket(
		func(*koro.Fx) string { return "conn" },
		func(s string) { released = s == "conn" },
		func(fx *koro.Fx, s string) string { return s + ":used" },
	)
	if got := koro.RunSync(m); got != "conn:used" {
		t.Fatalf("got %q", got)
	}
	if !released {
		t.Fatal("resource was not released")
	}
}

func TestBracketReleasesOnStop(t *testing.T) {
	released := false
	m := koro.Bracket(
		func(*koro.Fx) string { return "conn" },
		func(string) { released = true },
		func(fx *koro.Fx, s string) string {
			fx.Get("never")
			return s
		},
	)
	m.Next(nil)
	m.Stop()
	if !released {
		t.Fatal("resource was not released on stop")
	}
}

func TestOnStop(t *testing.T) {
	cleaned := false
	ok := koro.OnStop(func(*koro.Fx) int { return 1 }, func() { cleaned = true })
	koro.RunSync(ok)
	if cleaned {
		t.Fatal("cleanup ran on normal completion")
	}

	stopped := koro.OnStop(func(fx *koro.Fx) int {
		fx.Get("never")
		return 1
	}, func() { cleaned = true })
	stopped.Next(nil)
	stopped.Stop()
	if !cleaned {
		t.Fatal("cleanup did not run on stop")
	}
}
