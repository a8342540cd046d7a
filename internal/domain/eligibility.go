package domain

// ChangeOracle answers whether the coin mechanism can pay out a given
// amount as change. Defined here so the eligibility calculation does not
// depend on the device package; the coin mech adapter satisfies it.
type ChangeOracle interface {
	CanMakeChange(amount Money) bool
}

// EligibleProduct marks a slot as purchasable right now given the current
// wallet, stock and change-making capacity. Recomputed on demand, never
// persisted.
type EligibleProduct struct {
	SlotID SlotID
	Info   ProductInfo
}

// EligibleProducts lists the slots a cash buyer can purchase: stock on
// hand, balance covering the price, and the coin mech able to return the
// difference. Exact payment skips the oracle. Slots are emitted in
// ascending id order so the listing is deterministic.
func EligibleProducts(inventory *Inventory, wallet *Wallet, oracle ChangeOracle) []EligibleProduct {
	eligible := make([]EligibleProduct, 0, 8)
	balance := wallet.Balance()

	for _, slot := range inventory.Slots() {
		if slot.Stock().IsZero() {
			continue
		}
		price := slot.Info().Price
		if balance.Less(price) {
			continue
		}
		change, err := balance.Sub(price)
		if err != nil {
			continue
		}
		if !change.IsZero() && !oracle.CanMakeChange(change) {
			continue
		}
		eligible = append(eligible, EligibleProduct{SlotID: slot.ID(), Info: slot.Info()})
	}

	return eligible
}

// AvailableProducts lists every in-stock slot regardless of balance. Used
// by the e-money flow, where the external gateway owns the funds check.
func AvailableProducts(inventory *Inventory) []EligibleProduct {
	available := make([]EligibleProduct, 0, 8)
	for _, slot := range inventory.Slots() {
		if slot.Stock().IsZero() {
			continue
		}
		available = append(available, EligibleProduct{SlotID: slot.ID(), Info: slot.Info()})
	}
	return available
}
