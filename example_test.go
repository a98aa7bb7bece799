// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro_test

import (
	"context"
	"fmt"
	"time"

	"code.hybscloud.com/koro"
)

func ExampleTryClause_Handle() {
	fetch := koro.NewActor(func(fx *koro.Fx) string {
		id := fx.Get("userID").(int)
		if id == 0 {
			fx.Throw("NotFound", "anonymous user")
		}
		return fmt.Sprintf("user-%d", id)
	})
	got := koro.RunSync(koro.Try(fetch).Handle(koro.Handlers{
		"userID":   0,
		"NotFound": func(e any) any { return "guest" },
	}))
	fmt.Println(got)
	// Output: guest
}

func ExampleAll() {
	double := func(n int) *koro.Actor[int] {
		return koro.NewActor(func(fx *koro.Fx) int {
			v := fx.AwaitFunc(func() (any, error) { return n * 2, nil })
			return v.(int)
		})
	}
	got, err := koro.Run(context.Background(), koro.All(
		koro.Tasks(double(1), double(2), double(3)),
	))
	fmt.Println(got, err)
	// Output: [2 4 6] <nil>
}

func ExampleCommunicate() {
	greeting := koro.NewMsgClass[string]("Greeting")
	sender := koro.NewActor(func(fx *koro.Fx) any {
		greeting.Send(fx, "hi")
		return "s"
	})
	receiver := koro.NewActor(func(fx *koro.Fx) any {
		return "r:" + greeting.Wait(fx)
	})
	results, err := koro.Communicate(map[string]koro.Coroutine{
		"sender":   sender,
		"receiver": receiver,
	})
	fmt.Println(results["sender"], results["receiver"], err)
	// Output: s r:hi <nil>
}

func ExampleRace() {
	slow := koro.NewActor(func(fx *koro.Fx) string {
		fx.Await(koro.After(100 * time.Millisecond))
		return "slow"
	})
	fast := koro.NewActor(func(*koro.Fx) string { return "fast" })
	winner, err := koro.Run(context.Background(), koro.Race(koro.Tasks(slow, fast)))
	fmt.Println(winner, err)
	// Output: fast <nil>
}
