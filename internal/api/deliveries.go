package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/hnguyen/delivery-tracker/internal/model"
)

// CreateDeliveryRequest is the body for POST /deliveries.
type CreateDeliveryRequest struct {
	PickupLocation  string `json:"pickupLocation"`
	DropoffLocation string `json:"dropoffLocation"`
	PackageDetails  string `json:"packageDetails"`
	Notes           string `json:"notes,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// deliveryList accepts both response shapes the backend may use for
// list endpoints: a bare array or an object with an "items" field.
type deliveryList []model.Delivery

func (l *deliveryList) UnmarshalJSON(data []byte) error {
	var direct []model.Delivery
	if err := json.Unmarshal(data, &direct); err == nil {
		*l = direct
		return nil
	}

	var wrapped struct {
		Items []model.Delivery `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Items
	return nil
}

// CreateDelivery creates a delivery request (customer).
func (c *Client) CreateDelivery(ctx context.Context, req CreateDeliveryRequest) (*model.Delivery, error) {
	var d model.Delivery
	if err := c.post(ctx, "/deliveries", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListMyDeliveries lists deliveries for the current user (customer).
func (c *Client) ListMyDeliveries(ctx context.Context) ([]model.Delivery, error) {
	var l deliveryList
	if err := c.get(ctx, "/deliveries/my", &l); err != nil {
		return nil, err
	}
	return l, nil
}

// GetDelivery fetches a single delivery snapshot by id.
func (c *Client) GetDelivery(ctx context.Context, id string) (*model.Delivery, error) {
	var d model.Delivery
	if err := c.get(ctx, "/deliveries/"+url.PathEscape(id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListAvailableJobs lists deliveries a courier can accept.
func (c *Client) ListAvailableJobs(ctx context.Context) ([]model.Delivery, error) {
	var l deliveryList
	if err := c.get(ctx, "/courier/jobs", &l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListAssignedDeliveries lists the courier's assigned deliveries.
func (c *Client) ListAssignedDeliveries(ctx context.Context) ([]model.Delivery, error) {
	var l deliveryList
	if err := c.get(ctx, "/courier/assigned", &l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateDeliveryStatus requests a status transition and returns the
// updated snapshot. The client does not enforce transition order; the
// backend is the authority.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, id, status string) (*model.Delivery, error) {
	var d model.Delivery
	if err := c.post(ctx, "/deliveries/"+url.PathEscape(id)+"/status", statusRequest{Status: status}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
