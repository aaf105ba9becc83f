package app

import "github.com/annel0/mine-game/internal/game/inventory"

// InventoryView - содержимое инвентаря игрока
type InventoryView struct {
	Gold     int               `json:"gold"`
	XP       int               `json:"xp"`
	Used     int               `json:"used"`
	Capacity int               `json:"capacity"`
	Stacks   []inventory.Stack `json:"stacks"`
}

// Inventory возвращает копию инвентаря
func (s *Service) Inventory() InventoryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return InventoryView{
		Gold:     s.inv.Gold(),
		XP:       s.inv.XP(),
		Used:     s.inv.Used(),
		Capacity: s.inv.Capacity(),
		Stacks:   s.inv.Stacks(),
	}
}
