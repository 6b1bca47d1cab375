package dto

type SectorResponse struct {
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation,omitempty"`
	X            int      `json:"x"`
	Y            int      `json:"y"`
	Subsectors   []string `json:"subsectors,omitempty"`
	WorldCount   int      `json:"world_count"`
}

type ListSectorsResponse struct {
	Sectors []SectorResponse `json:"sectors"`
}

type UploadSectorResponse struct {
	BatchID string `json:"batch_id"`
	Sector  string `json:"sector"`
	Worlds  int    `json:"worlds"`
	Routes  int    `json:"routes"`
}
