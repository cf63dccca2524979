package params

import (
	"gitlab.com/gomidi/midi/v2"
)

// Default MIDI controller assignments.
const (
	DefaultDriveCC  uint8 = 20
	DefaultToneCC   uint8 = 21
	DefaultMixCC    uint8 = 22
	DefaultOutputCC uint8 = 23
	DefaultBypassCC uint8 = 24
	DefaultPreCC    uint8 = 25
)

// AnyChannel makes a CCMap accept control changes on every MIDI channel.
const AnyChannel = -1

const noController = 0xFF

// CCMap routes MIDI control changes to a Store. Continuous parameters take
// the 7-bit value as a normalized position; toggles switch on at 64.
type CCMap struct {
	channel  int
	params   [128]ID
	bound    [128]bool
	bypassCC uint8
	preCC    uint8
}

// NewCCMap returns an empty map listening on channel (0-15 or AnyChannel).
func NewCCMap(channel int) *CCMap {
	return &CCMap{channel: channel, bypassCC: noController, preCC: noController}
}

// DefaultCCMap returns the stock assignments on all channels.
func DefaultCCMap() *CCMap {
	m := NewCCMap(AnyChannel)
	m.Bind(DefaultDriveCC, Drive)
	m.Bind(DefaultToneCC, Tone)
	m.Bind(DefaultMixCC, Mix)
	m.Bind(DefaultOutputCC, Output)
	m.BindBypass(DefaultBypassCC)
	m.BindPre(DefaultPreCC)

	return m
}

// SetChannel restricts the map to channel (0-15 or AnyChannel).
func (m *CCMap) SetChannel(channel int) { m.channel = channel }

// Bind assigns controller cc to id, replacing any previous assignment.
func (m *CCMap) Bind(cc uint8, id ID) {
	if cc > 127 || !id.Valid() {
		return
	}

	m.params[cc] = id
	m.bound[cc] = true
}

// BindBypass assigns the bypass toggle to cc.
func (m *CCMap) BindBypass(cc uint8) {
	if cc <= 127 {
		m.bypassCC = cc
	}
}

// BindPre assigns the routing toggle to cc.
func (m *CCMap) BindPre(cc uint8) {
	if cc <= 127 {
		m.preCC = cc
	}
}

// Lookup returns the parameter bound to cc.
func (m *CCMap) Lookup(cc uint8) (ID, bool) {
	if cc > 127 || !m.bound[cc] {
		return 0, false
	}

	return m.params[cc], true
}

// Apply writes msg to store if it is a control change this map handles and
// reports whether it did.
func (m *CCMap) Apply(store *Store, msg midi.Message) bool {
	var channel, controller, value uint8
	if !msg.GetControlChange(&channel, &controller, &value) {
		return false
	}

	if m.channel != AnyChannel && int(channel) != m.channel {
		return false
	}

	switch controller {
	case m.bypassCC:
		store.SetBypass(value >= 64)
		return true
	case m.preCC:
		store.SetPre(value >= 64)
		return true
	}

	id, ok := m.Lookup(controller)
	if !ok {
		return false
	}

	store.SetNormalized(id, float64(value)/127)

	return true
}
