// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package koro

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// participant is the rendezvous-side state of one named coroutine.
type participant struct {
	key  string
	co   Coroutine
	done bool
}

// pendingOp is an unmatched send or wait, recorded in the per-name
// slot and in the arrival-order queue used at drain time.
type pendingOp struct {
	key   string // participant
	name  string // mailbox
	msg   any
	send  bool
	taken bool
}

// wakeup schedules a participant to be advanced with a resumption.
type wakeup struct {
	key string
	res resumption
}

// Communicate interleaves a named bag of coroutines on a single
// logical thread around synchronous send/wait pairs on named
// mailboxes, and returns the map from participant name to its
// return value.
//
// A send suspends its participant until a wait on the same mailbox
// arrives, and vice versa; when the pair meets, the waiter resumes
// first with the message and then the sender resumes empty-handed.
// Each mailbox holds at most one pending send and one pending wait.
// When every participant is suspended, stranded operations are
// resolved in arrival order by raising a diagnostic inside the
// stranded participant — which may recover and carry on, or let the
// diagnostic propagate as the returned error. Participants that a
// failure leaves unfinished are terminated, running their cleanup.
func Communicate(parts map[string]Coroutine, opts ...Option) (map[string]any, error) {
	cfg := newConfig(opts)

	procs := make(map[string]*participant, len(parts))
	keys := make([]string, 0, len(parts))
	for k, co := range parts {
		if co == nil {
			panic(fmt.Sprintf("koro: nil participant %q in communicate", k))
		}
		procs[k] = &participant{key: k, co: co}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	results := make(map[string]any, len(parts))
	sendSlot := make(map[string]*pendingOp)
	waitSlot := make(map[string]*pendingOp)
	var queue []*pendingOp
	var runnable []wakeup

	defer func() {
		for _, k := range keys {
			if p := procs[k]; !p.done {
				p.co.stop()
			}
		}
	}()

	// advance drives one participant until it suspends on a mailbox
	// or returns. Matched pairs wake the waiter first, then the
	// sender.
	advance := func(p *participant, res resumption) error {
		for {
			eff, done, pan := p.co.step(res)
			if pan != nil {
				if err, ok := pan.(error); ok {
					return errors.WithMessagef(err, "koro: participant %q failed", p.key)
				}
				panic(pan)
			}
			if done {
				p.done = true
				results[p.key] = p.co.result()
				cfg.logf("participant returned", "key", p.key)
				return nil
			}
			switch e := eff.(type) {
			case *Msg:
				if !e.Wait {
					if w := waitSlot[e.Name]; w != nil {
						w.taken = true
						delete(waitSlot, e.Name)
						runnable = append(runnable,
							wakeup{key: w.key, res: resumption{value: e.Message}},
							wakeup{key: p.key, res: resumption{}},
						)
						cfg.logf("rendezvous matched", "mailbox", e.Name, "sender", p.key, "waiter", w.key)
						return nil
					}
					if sendSlot[e.Name] != nil {
						panic(fmt.Sprintf("koro: mailbox %q already has a pending send", e.Name))
					}
					op := &pendingOp{key: p.key, name: e.Name, msg: e.Message, send: true}
					sendSlot[e.Name] = op
					queue = append(queue, op)
					return nil
				}
				if s := sendSlot[e.Name]; s != nil {
					s.taken = true
					delete(sendSlot, e.Name)
					runnable = append(runnable,
						wakeup{key: p.key, res: resumption{value: s.msg}},
						wakeup{key: s.key, res: resumption{}},
					)
					cfg.logf("rendezvous matched", "mailbox", e.Name, "sender", s.key, "waiter", p.key)
					return nil
				}
				if waitSlot[e.Name] != nil {
					panic(fmt.Sprintf("koro: mailbox %q already has a pending wait", e.Name))
				}
				op := &pendingOp{key: p.key, name: e.Name}
				waitSlot[e.Name] = op
				queue = append(queue, op)
				return nil
			case *Err:
				// Communicate is the top-level runner for its
				// participants: an unhandled failure escapes as an
				// error naming the participant.
				return errors.Errorf("koro: participant %q failed: %v", p.key, e.Error)
			case *Opt:
				res = resumption{}
			default:
				panic(fmt.Sprintf("koro: unexpected effect %T in communicate (participant %q)", eff, p.key))
			}
		}
	}

	for _, k := range keys {
		runnable = append(runnable, wakeup{key: k})
	}
	for {
		for len(runnable) > 0 {
			w := runnable[0]
			runnable = runnable[1:]
			if err := advance(procs[w.key], w.res); err != nil {
				return nil, err
			}
		}
		queue = slices.DeleteFunc(queue, func(op *pendingOp) bool { return op.taken })
		if len(queue) == 0 {
			break
		}
		// Quiescent with stranded operations: resolve the oldest by
		// raising a diagnostic inside its participant.
		op := queue[0]
		queue = queue[1:]
		op.taken = true
		var diag error
		if op.send {
			delete(sendSlot, op.name)
			diag = errors.Errorf("Message '%s' sent by '%s' was not received", op.name, op.key)
		} else {
			delete(waitSlot, op.name)
			diag = errors.Errorf("Message '%s' waited by '%s' was not sent", op.name, op.key)
		}
		cfg.logf("stranded operation", "mailbox", op.name, "participant", op.key)
		runnable = append(runnable, wakeup{key: op.key, res: resumption{throw: diag}})
	}

	var unfinished []string
	for _, k := range keys {
		if !procs[k].done {
			unfinished = append(unfinished, k)
		}
	}
	if len(unfinished) > 0 {
		panic(fmt.Sprintf("koro: communicate finished with suspended participants: %v", unfinished))
	}
	return results, nil
}
