package model

type Medicine struct {
	Base
	Name         string `db:"name" json:"name"`
	Manufacturer string `db:"manufacturer" json:"manufacturer,omitempty"`
	Unit         string `db:"unit" json:"unit"`
	Price        int64  `db:"price" json:"price"`
	Stock        int    `db:"stock" json:"stock"`
}

type CreateMedicineRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Manufacturer string `json:"manufacturer" validate:"max=200"`
	Unit         string `json:"unit" validate:"required,max=20"`
	Price        int64  `json:"price" validate:"required,gt=0"`
	Stock        int    `json:"stock" validate:"gte=0"`
}

type MedicineFilters struct {
	SearchTerm string
}
