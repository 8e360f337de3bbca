package store

import "errors"

var ErrNoOrders = errors.New("no order lines stored")
