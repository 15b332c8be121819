package request

// PartyRequest is the add form for suppliers and customers
type PartyRequest struct {
	Name    string  `json:"name" binding:"required,max=100"`
	Contact *string `json:"contact" binding:"omitempty,max=255"`
	Address *string `json:"address"`
}

// UpdatePartyRequest is the edit form for suppliers and customers.
// Omitted fields keep their stored value.
type UpdatePartyRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=100"`
	Contact *string `json:"contact" binding:"omitempty,max=255"`
	Address *string `json:"address"`
}

// ItemRequest is the add form for items
type ItemRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Category *string `json:"category" binding:"omitempty,max=100"`
}

// UpdateItemRequest is the edit form for items
type UpdateItemRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Category *string `json:"category" binding:"omitempty,max=100"`
}
