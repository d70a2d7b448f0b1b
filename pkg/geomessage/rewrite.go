package geomessage

import "time"

// TimeFormat is the layout applied to time-override fields in outgoing
// messages. It matches the datetime shape of recorded geomessage feeds.
const TimeFormat = "01/02/2006 3:04:05 PM"

// Rewrite returns a copy of msg with each field named in fields replaced by
// now formatted with TimeFormat. Names absent from the record are silently
// ignored; every other field is byte-for-byte unchanged. The input message
// is never modified.
func Rewrite(msg Message, fields []string, now time.Time) Message {
	if len(fields) == 0 {
		return msg
	}
	out := msg.Clone()
	stamp := now.Format(TimeFormat)
	for _, name := range fields {
		out.set(name, stamp)
	}
	return out
}
