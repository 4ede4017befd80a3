package models

import "math"

// Response is the success envelope returned by every API endpoint.
type Response struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Count       *int        `json:"count,omitempty"`
	Total       *int64      `json:"total,omitempty"`
	Pages       *int        `json:"pages,omitempty"`
	CurrentPage *int        `json:"currentPage,omitempty"`
	Data        interface{} `json:"data,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Message builds a success envelope carrying a human readable message.
func Message(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// List wraps an unpaginated collection and reports how many items it holds.
func List(data interface{}, count int) Response {
	return Response{Success: true, Count: &count, Data: data}
}

// Page wraps one page of a paginated collection.
func Page(data interface{}, count int, total int64, page, limit int) Response {
	pages := TotalPages(total, limit)
	return Response{
		Success:     true,
		Count:       &count,
		Total:       &total,
		Pages:       &pages,
		CurrentPage: &page,
		Data:        data,
	}
}

// TotalPages is ceil(total/limit). A non-positive limit yields zero pages.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
