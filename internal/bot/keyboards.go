package bot

import (
	"fmt"

	"housekeeping-backend/internal/model"
	"housekeeping-backend/internal/parse"
)

const (
	roleButtonMaid       = "🧹 Maid"
	roleButtonSupervisor = "🧑‍💼 Supervisor"

	linenButtonLabel      = "Submit linen"
	checkRoomsButtonLabel = "🔍 Check rooms"
)

// maidKeyboard lists one cleaned-button per assigned room, two per row,
// with the linen submission button on its own row at the end.
func maidKeyboard(rooms []model.Room) [][]Button {
	var rows [][]Button
	var row []Button
	for _, room := range rooms {
		row = append(row, Button{
			Label: fmt.Sprintf("✅ Cleaned №%s", room.Number),
			Data:  parse.CallbackData(parse.VerbCleaned, room.Number),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Button{{
		Label: linenButtonLabel,
		Data:  parse.CallbackData(parse.VerbLinenReport, ""),
	}})
	return rows
}

func supervisorKeyboard() [][]Button {
	return [][]Button{{{
		Label: checkRoomsButtonLabel,
		Data:  parse.CallbackData(parse.VerbCheckRooms, ""),
	}}}
}

// approveKeyboard lists rooms awaiting check, two per row, labelled with the
// maid who cleaned each one.
func approveKeyboard(rooms []model.Room) [][]Button {
	var rows [][]Button
	var row []Button
	for _, room := range rooms {
		row = append(row, Button{
			Label: fmt.Sprintf("🔍 №%s (%s)", room.Number, room.AssignedStaff),
			Data:  parse.CallbackData(parse.VerbApprove, room.Number),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}
