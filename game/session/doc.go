// Package session runs a single world through its lifecycle.
//
// A Game wraps an engine.World and moves through four states:
//
//	Uninitialized -> Running <-> Paused -> Over
//
// Start performs genesis, runs the Init hook, draws the first frame and
// hands the tick function to a Scheduler. Ticks never overlap: the scheduler
// goroutine, manual Step calls and snapshot readers all serialise on the
// same lock, while Status reads only values recorded after each tick and so
// never waits for one.
//
// Hooks:
//
// Init, BeforeTick and AfterTick receive the world itself and run while the
// tick lock is held; they must not call Snapshot or ASCII on the game. They
// may call EndGame, which is deferred until the tick finishes. GameOver is
// immediate and idempotent; AfterGameOver runs exactly once.
//
// Usage:
//
//	game, err := session.New(session.Options{
//		World:     world,
//		Scheduler: session.NewTicker(200 * time.Millisecond),
//	})
//	if err := game.Start(ctx, genesis); err != nil {
//		return err
//	}
//	<-game.Done()
package session
