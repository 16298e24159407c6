package game

import "testing"

func TestNewPlayerDefaults(t *testing.T) {
	dealt := [SlotCount]int{0, 2, 1, 1, 1, 0}
	p := NewPlayer("ana", 2, dealt)

	if p.Cash != StartingCash {
		t.Errorf("Expected opening cash %d, got %d", StartingCash, p.Cash)
	}
	if p.Stocks != dealt {
		t.Errorf("Expected the dealt holdings, got %v", p.Stocks)
	}
	if p.State != ActionNotStarted {
		t.Errorf("Expected a fresh action state, got %s", p.State)
	}
	if !p.Connected {
		t.Error("Expected a new player marked connected")
	}
}

func TestPlayerRepay(t *testing.T) {
	p := NewPlayer("ana", 0, [SlotCount]int{})
	p.TotalDebt = 100
	p.Cash = 80

	p.Repay(30)
	if p.TotalDebt != 70 || p.Cash != 50 {
		t.Errorf("Expected debt 70 and cash 50, got %d and %d", p.TotalDebt, p.Cash)
	}
}

func TestFindPlayer(t *testing.T) {
	g := &Game{Players: []*Player{
		NewPlayer("ana", 0, [SlotCount]int{}),
		NewPlayer("ben", 1, [SlotCount]int{}),
	}}

	p, err := g.FindPlayer("ben")
	if err != nil || p.Nickname != "ben" {
		t.Errorf("Expected ben found, got %v %v", p, err)
	}
	if _, err := g.FindPlayer("ghost"); err != ErrPlayerNotFound {
		t.Errorf("Expected ErrPlayerNotFound, got %v", err)
	}
}
