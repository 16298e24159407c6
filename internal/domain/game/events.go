package game

// StockGroup names the subset of market slots an economic event touches.
type StockGroup string

const (
	GroupAll     StockGroup = "ALL"
	GroupFood    StockGroup = "FOOD"    // goods 1-2
	GroupGift    StockGroup = "GIFT"    // good 3
	GroupClothes StockGroup = "CLOTHES" // goods 4-5
	GroupNone    StockGroup = "NULL"
)

// EconomicEvent is one entry of the per-round news catalog. Value moves
// the interest rate by its magnitude and the affected prices by one
// lattice step in its direction.
type EconomicEvent struct {
	ID    int        `json:"id"`
	Title string     `json:"title"`
	Group StockGroup `json:"group"`
	Value int        `json:"value"`
}

// eventCatalog is the fixed news pool games draw their round sequence
// from, without replacement.
var eventCatalog = []EconomicEvent{
	{ID: 1, Title: "Central bank raises the base rate", Group: GroupNone, Value: 2},
	{ID: 2, Title: "Central bank cuts the base rate", Group: GroupNone, Value: -2},
	{ID: 3, Title: "Harvest failure drives food prices up", Group: GroupFood, Value: 1},
	{ID: 4, Title: "Record harvest floods the food stalls", Group: GroupFood, Value: -1},
	{ID: 5, Title: "Festival season clears the gift shelves", Group: GroupGift, Value: 1},
	{ID: 6, Title: "Counterfeit scandal hits the gift trade", Group: GroupGift, Value: -1},
	{ID: 7, Title: "Cold snap empties the clothing racks", Group: GroupClothes, Value: 1},
	{ID: 8, Title: "Warehouse fire dumps cheap clothing", Group: GroupClothes, Value: -1},
	{ID: 9, Title: "Trade caravan arrives, market booms", Group: GroupAll, Value: 1},
	{ID: 10, Title: "Road bandits choke off supply lines", Group: GroupAll, Value: -1},
	{ID: 11, Title: "War rumors send rates climbing", Group: GroupNone, Value: 1},
	{ID: 12, Title: "Peace treaty calms the money market", Group: GroupNone, Value: -1},
	{ID: 13, Title: "Spice craze lifts the food trade", Group: GroupFood, Value: 2},
	{ID: 14, Title: "Grain tariff collapses food margins", Group: GroupFood, Value: -2},
	{ID: 15, Title: "Royal wedding sparks a gift rush", Group: GroupGift, Value: 2},
	{ID: 16, Title: "Gift tax decree chills the stalls", Group: GroupGift, Value: -2},
	{ID: 17, Title: "Silk shipment sells out overnight", Group: GroupClothes, Value: 2},
	{ID: 18, Title: "Imported fabrics undercut the tailors", Group: GroupClothes, Value: -2},
	{ID: 19, Title: "Gold fever pulls coin into the arena", Group: GroupAll, Value: 2},
	{ID: 20, Title: "Bank panic drains the whole market", Group: GroupAll, Value: -2},
	{ID: 21, Title: "Quiet week on the exchange", Group: GroupNone, Value: 1},
	{ID: 22, Title: "Slow season settles the ledgers", Group: GroupNone, Value: -1},
}

// EventCatalogSize is the number of distinct news entries.
func EventCatalogSize() int {
	return len(eventCatalog)
}

// EventByID resolves a catalog entry. IDs are 1-based.
func EventByID(id int) (EconomicEvent, bool) {
	if id < 1 || id > len(eventCatalog) {
		return EconomicEvent{}, false
	}
	return eventCatalog[id-1], true
}
