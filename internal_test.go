// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

import (
	"strings"
	"testing"
)

// badEffect is a descriptor outside the recognised set, used to
// exercise the fatal diagnostics.
type badEffect struct{}

func (badEffect) effect() {}

func recoverDiagnostic(t *testing.T, want string) {
	t.Helper()
	r := recover()
	if r == nil {
		t.Fatalf("expected a fatal diagnostic containing %q", want)
	}
	msg, ok := r.(string)
	if !ok {
		t.Fatalf("expected string panic, got %T: %v", r, r)
	}
	if !strings.Contains(msg, want) {
		t.Fatalf("diagnostic %q does not contain %q", msg, want)
	}
}

func TestHandleUnknownDescriptorFatal(t *testing.T) {
	g := NewActor(func(fx *Fx) int {
		fx.Perform(badEffect{})
		return 0
	})
	wrapped := Try(g).Handle(Handlers{})
	defer recoverDiagnostic(t, "unexpected effect")
	wrapped.Next(nil)
}

func TestRunSyncUnknownDescriptorFatal(t *testing.T) {
	g := NewActor(func(fx *Fx) int {
		fx.Perform(badEffect{})
		return 0
	})
	defer recoverDiagnostic(t, "unexpected effect")
	RunSync(g)
}

func TestCommunicateUnexpectedEffectFatal(t *testing.T) {
	g := NewActor(func(fx *Fx) any {
		fx.Get("nope")
		return nil
	})
	defer recoverDiagnostic(t, "unexpected effect")
	Communicate(map[string]Coroutine{"p": g})
}
