package entities

type LotRequest struct {
	BlockID      string `json:"block_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	PricePerHour int    `json:"price_per_hour"`
	Capacity     int    `json:"capacity"`
}

type LotResponse struct {
	ID           int    `json:"id"`
	BlockID      string `json:"block_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	PricePerHour int    `json:"price_per_hour"`
	Capacity     int    `json:"capacity"`
	Occupied     int    `json:"occupied"`
	Available    int    `json:"available"`
}

type SpotResponse struct {
	ID        int    `json:"id"`
	SpotIndex int    `json:"spot_index"`
	Label     string `json:"label"`
	Status    string `json:"status"`
}

type BlockStat struct {
	BlockID string `json:"block_id"`
	Active  int    `json:"active"`
}

type ParkingStats struct {
	Total     int         `json:"total"`
	Occupied  int         `json:"occupied"`
	Available int         `json:"available"`
	Blocks    []BlockStat `json:"blocks"`
}
