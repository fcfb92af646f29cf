package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/modlearn/modlearn/app/logic/v1"
	"github.com/modlearn/modlearn/app/response"
	"github.com/modlearn/modlearn/pkg/utils"
)

func (s *HttpSrv) AddToCart(c *gin.Context) {
	var req v1.AddToCartArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	itemID, err := v1.NewOrderLogic(c, s.Core).AddToCart(req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"item_id": itemID})
}

func (s *HttpSrv) RemoveFromCart(c *gin.Context) {
	itemID, _ := c.Params.Get("itemid")

	if err := v1.NewOrderLogic(c, s.Core).RemoveFromCart(itemID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) GetCart(c *gin.Context) {
	cart, err := v1.NewOrderLogic(c, s.Core).GetCart()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, cart)
}

func (s *HttpSrv) Checkout(c *gin.Context) {
	order, err := v1.NewOrderLogic(c, s.Core).Checkout()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, order)
}

func (s *HttpSrv) ConfirmPayment(c *gin.Context) {
	var req v1.ConfirmPaymentArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	payment, err := v1.NewOrderLogic(c, s.Core).ConfirmPayment(req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, payment)
}

func (s *HttpSrv) GetOrder(c *gin.Context) {
	orderID, _ := c.Params.Get("orderid")

	detail, err := v1.NewOrderLogic(c, s.Core).GetOrder(orderID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, detail)
}

func (s *HttpSrv) ListOrders(c *gin.Context) {
	var req ListFilesRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewOrderLogic(c, s.Core).ListOrders(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{
		"list": list,
		"meta": response.ListMeta{Total: total, Page: req.Page, PageSize: req.PageSize},
	})
}

func (s *HttpSrv) ListPurchases(c *gin.Context) {
	var req ListFilesRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewOrderLogic(c, s.Core).ListPurchases(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, gin.H{"list": list})
}
