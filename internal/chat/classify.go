package chat

import "vliz-backend/internal/model"

// Classification is the result of one pass over the full raw log. Every
// record lands in exactly one of the three slices.
type Classification struct {
	Public   []model.ClassifiedMessage
	Support  []model.ClassifiedMessage
	Commands []model.Command
}

// Channel returns the classified messages for one channel.
func (c Classification) Channel(ch model.Channel) []model.ClassifiedMessage {
	if ch == model.ChannelPublic {
		return c.Public
	}
	return c.Support
}

// Classify partitions the raw log into public messages, support messages
// and control commands, preserving log order in each slice. It is a pure
// function of the log: no state, no side effects.
func Classify(records []string) Classification {
	cls := Classification{
		Public:  []model.ClassifiedMessage{},
		Support: []model.ClassifiedMessage{},
	}

	for i, record := range records {
		if cmd, ok := AsCommand(record); ok {
			cls.Commands = append(cls.Commands, model.Command{Text: cmd, Index: i})
			continue
		}

		tag := Decode(record)
		msg := model.ClassifiedMessage{
			Channel:  model.ChannelSupport,
			Author:   tag.Author,
			Body:     tag.Body,
			File:     tag.File,
			Raw:      record,
			RawIndex: i,
		}
		if tag.Public {
			msg.Channel = model.ChannelPublic
			cls.Public = append(cls.Public, msg)
		} else {
			cls.Support = append(cls.Support, msg)
		}
	}

	return cls
}
