package chat

import (
	"testing"

	"vliz-backend/internal/model"

	"github.com/stretchr/testify/require"
)

func TestClassify_PartitionsEveryRecord(t *testing.T) {
	records := []string{
		"a",
		"[PUBLIC]b",
		"!mantenimiento on",
		"[USER:{\"userId\":\"1\",\"username\":\"bob\",\"avatar\":null}]hi",
		"  !mantenimiento off ",
		"[PUBLIC][FILE:x.png]data:image/png;base64,AA==",
		"",
	}

	cls := Classify(records)

	require.Len(t, cls.Support, 3)
	require.Len(t, cls.Public, 2)
	require.Len(t, cls.Commands, 2)
	require.Equal(t, len(records), len(cls.Support)+len(cls.Public)+len(cls.Commands))
}

func TestClassify_IsPure(t *testing.T) {
	records := []string{"a", "[PUBLIC]b", "!mantenimiento on", "c"}

	first := Classify(records)
	second := Classify(records)

	require.Equal(t, first, second)
}

func TestClassify_PublicRouting(t *testing.T) {
	cls := Classify([]string{"[PUBLIC]hello world"})

	require.Len(t, cls.Public, 1)
	require.Empty(t, cls.Support)
	require.Equal(t, model.ChannelPublic, cls.Public[0].Channel)
	require.Equal(t, "hello world", cls.Public[0].Body)
	require.Equal(t, "[PUBLIC]hello world", cls.Public[0].Raw)
	require.Equal(t, 0, cls.Public[0].RawIndex)
}

func TestClassify_EmptyRecordIsEmptySupportMessage(t *testing.T) {
	cls := Classify([]string{""})

	require.Len(t, cls.Support, 1)
	require.Empty(t, cls.Support[0].Body)
}

func TestClassify_CommandsKeepLogPosition(t *testing.T) {
	cls := Classify([]string{"a", "!mantenimiento on", "b", "!mantenimiento off"})

	require.Equal(t, []model.Command{
		{Text: CommandMaintenanceOn, Index: 1},
		{Text: CommandMaintenanceOff, Index: 3},
	}, cls.Commands)
}

func TestClassify_PaddedCommandIsStillCommand(t *testing.T) {
	cls := Classify([]string{" !mantenimiento on "})

	require.Len(t, cls.Commands, 1)
	require.Empty(t, cls.Support)
	require.Empty(t, cls.Public)
}

func TestClassify_CommandWithExtraTextIsChat(t *testing.T) {
	cls := Classify([]string{"!mantenimiento on extra"})

	require.Empty(t, cls.Commands)
	require.Len(t, cls.Support, 1)
	require.Equal(t, "!mantenimiento on extra", cls.Support[0].Body)
}

func TestClassify_SendPublicRoundTrip(t *testing.T) {
	record := Tag{Public: true, Body: "hi"}.Encode()

	cls := Classify([]string{record})

	require.Len(t, cls.Public, 1)
	require.Equal(t, "hi", cls.Public[0].Body)
	require.Equal(t, model.ChannelPublic, cls.Public[0].Channel)
}
