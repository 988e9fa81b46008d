// Package hook provides the multicast registry through which libraries and
// plugins subscribe to sketch lifecycle notifications.
//
// A registration names an event, a receiver and a method. The method is
// resolved when Register is called, so a misspelled method fails at
// registration rather than on the first notification. Go receivers are
// resolved by reflection against their exported method set; receivers that
// implement Resolver (for example Lua plugins) resolve names themselves.
//
// Notification order is registration order. A failing callable is isolated:
// its error is logged and the remaining callables still run, unless the
// error is fatal (see IsFatal), in which case Notify stops and returns it.
//
// Example:
//
//	reg := hook.NewRegistry(logger)
//	if err := reg.Register(hook.EventDraw, overlay, "AfterDraw"); err != nil {
//		return err
//	}
//	// Later, from the tick goroutine:
//	if err := reg.Notify(hook.EventDraw, nil); err != nil {
//		panic(err)
//	}
package hook
