package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/platforms"
)

var (
	_ list.Item = accountItem{}
)

// accountItem wraps [models.Account] with a selection mark to implement [list.Item].
type accountItem struct {
	account  *models.Account
	selected bool
}

func (i accountItem) FilterValue() string { return i.account.DisplayName() }

func (i accountItem) Title() string {
	mark := "[ ]"
	if i.selected {
		mark = "[x]"
	}
	name := i.account.DisplayName()
	if spec, ok := platforms.Get(i.account.Platform()); ok {
		name = fmt.Sprintf("%s · %s", spec.NameEN, name)
	}
	return fmt.Sprintf("%s %s", mark, name)
}

func (i accountItem) Description() string {
	if i.account.LoggedIn() {
		return "logged in"
	}
	return "not logged in · will open a window for manual upload"
}
