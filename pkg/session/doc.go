/*
Package session implements checkpoint orchestration for hosts running many navigators.

A navigation.Navigator is single-threaded and knows nothing about storage.
The Manager is the host side: it restores navigators from a ports.StateStore,
saves them back, and serializes all work on a given session with an in-process
mutex and, optionally, a distributed lock shared by several replicas.

What to do with a malformed checkpoint is a host decision, expressed as a
RestorePolicy: fail loudly (the default) or reset the session to Home.
*/
package session
