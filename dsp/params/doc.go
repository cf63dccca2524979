// Package params defines the saturator's parameter layout and the lock-free
// store shared between control threads and the audio thread.
//
// Writers (UI, automation, MIDI) call Set, SetBypass and SetPre from any
// goroutine. The audio thread reads everything once per block with
// Snapshot. Every access is a single atomic load or store; nothing blocks.
package params
