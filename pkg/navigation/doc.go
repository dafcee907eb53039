/*
Package navigation holds the navigation state of a two-screen app.

A Navigator tracks the current domain.Screen, lets callers move between Home
and Detail, and checkpoints itself into a bundle.Bundle that Restore turns
back into a Navigator after process death.

# State machine

	Home      --Navigate(Detail(d))--> Detail(d)
	Detail(d) --Navigate(Detail(e))--> Detail(e)
	Detail(d) --Navigate(Home)-------> Home
	Detail(d) --Back()---------------> Home   (true)
	Home      --Back()---------------> Home   (false, no notification)

Observers subscribe through Screen(); the package does not depend on any UI
toolkit.
*/
package navigation
