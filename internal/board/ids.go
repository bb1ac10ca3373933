package board

import "github.com/amirbrooks/flowboard/internal/ident"

func NewBoardID() string  { return ident.New("brd_") }
func NewColumnID() string { return ident.New("col_") }
func NewTaskID() string   { return ident.New("tsk_") }
func NewMemberID() string { return ident.New("mbr_") }
