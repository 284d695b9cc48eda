package client

import (
	"context"
	"net/http"
	"net/url"
)

// TaskService covers /api/tasks.
type TaskService struct {
	c *Client
}

func (s *TaskService) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := s.c.do(ctx, http.MethodGet, "/api/tasks", nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, in TaskCreate) (*Task, error) {
	if in.Status == "" {
		in.Status = TaskPending
	}
	var task Task
	if err := s.c.do(ctx, http.MethodPost, "/api/tasks", nil, in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, upd TaskUpdate) (*Task, error) {
	var task Task
	if err := s.c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), nil, upd, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// OrderService covers /api/orders.
type OrderService struct {
	c *Client
}

func (s *OrderService) List(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := s.c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) Create(ctx context.Context, in OrderCreate) (*Order, error) {
	if in.Status == "" {
		in.Status = OrderProcessing
	}
	var order Order
	if err := s.c.do(ctx, http.MethodPost, "/api/orders", nil, in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SOSService covers /api/sos.
type SOSService struct {
	c *Client
}

func (s *SOSService) List(ctx context.Context) ([]SOSAlert, error) {
	var alerts []SOSAlert
	if err := s.c.do(ctx, http.MethodGet, "/api/sos", nil, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (s *SOSService) Create(ctx context.Context, in SOSCreate) (*SOSAlert, error) {
	if in.Status == "" {
		in.Status = SOSSent
	}
	var alert SOSAlert
	if err := s.c.do(ctx, http.MethodPost, "/api/sos", nil, in, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}
