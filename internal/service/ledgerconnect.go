package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the ledger service.
const LedgerServiceName = "settleup.v1.LedgerService"

// Procedure paths, as routed by NewLedgerServiceHandler.
const (
	ValidateSplitProcedure   = "/" + LedgerServiceName + "/ValidateSplit"
	ComputeSharesProcedure   = "/" + LedgerServiceName + "/ComputeShares"
	SolveSettlementProcedure = "/" + LedgerServiceName + "/SolveSettlement"
	SettleSplitProcedure     = "/" + LedgerServiceName + "/SettleSplit"
	CreateDebtProcedure      = "/" + LedgerServiceName + "/CreateDebt"
	GetDebtProcedure         = "/" + LedgerServiceName + "/GetDebt"
	ListDebtsProcedure       = "/" + LedgerServiceName + "/ListDebts"
	MarkDebtPaidProcedure    = "/" + LedgerServiceName + "/MarkDebtPaid"
	DeleteDebtProcedure      = "/" + LedgerServiceName + "/DeleteDebt"
	ComposeReminderProcedure = "/" + LedgerServiceName + "/ComposeReminder"
	GetSummaryProcedure      = "/" + LedgerServiceName + "/GetSummary"
)

// PublicProcedures need no authenticated owner.
var PublicProcedures = []string{
	ValidateSplitProcedure,
	ComputeSharesProcedure,
	SolveSettlementProcedure,
}

// LedgerServiceHandler is implemented by LedgerService.
type LedgerServiceHandler interface {
	ValidateSplit(context.Context, *connect.Request[ValidateSplitRequest]) (*connect.Response[ValidateSplitResponse], error)
	ComputeShares(context.Context, *connect.Request[ComputeSharesRequest]) (*connect.Response[ComputeSharesResponse], error)
	SolveSettlement(context.Context, *connect.Request[SolveSettlementRequest]) (*connect.Response[SolveSettlementResponse], error)
	SettleSplit(context.Context, *connect.Request[SettleSplitRequest]) (*connect.Response[SettleSplitResponse], error)
	CreateDebt(context.Context, *connect.Request[CreateDebtRequest]) (*connect.Response[CreateDebtResponse], error)
	GetDebt(context.Context, *connect.Request[GetDebtRequest]) (*connect.Response[GetDebtResponse], error)
	ListDebts(context.Context, *connect.Request[ListDebtsRequest]) (*connect.Response[ListDebtsResponse], error)
	MarkDebtPaid(context.Context, *connect.Request[MarkDebtPaidRequest]) (*connect.Response[MarkDebtPaidResponse], error)
	DeleteDebt(context.Context, *connect.Request[DeleteDebtRequest]) (*connect.Response[DeleteDebtResponse], error)
	ComposeReminder(context.Context, *connect.Request[ComposeReminderRequest]) (*connect.Response[ComposeReminderResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc. The returned path
// is the prefix to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ValidateSplitProcedure, connect.NewUnaryHandler(ValidateSplitProcedure, svc.ValidateSplit, opts...))
	mux.Handle(ComputeSharesProcedure, connect.NewUnaryHandler(ComputeSharesProcedure, svc.ComputeShares, opts...))
	mux.Handle(SolveSettlementProcedure, connect.NewUnaryHandler(SolveSettlementProcedure, svc.SolveSettlement, opts...))
	mux.Handle(SettleSplitProcedure, connect.NewUnaryHandler(SettleSplitProcedure, svc.SettleSplit, opts...))
	mux.Handle(CreateDebtProcedure, connect.NewUnaryHandler(CreateDebtProcedure, svc.CreateDebt, opts...))
	mux.Handle(GetDebtProcedure, connect.NewUnaryHandler(GetDebtProcedure, svc.GetDebt, opts...))
	mux.Handle(ListDebtsProcedure, connect.NewUnaryHandler(ListDebtsProcedure, svc.ListDebts, opts...))
	mux.Handle(MarkDebtPaidProcedure, connect.NewUnaryHandler(MarkDebtPaidProcedure, svc.MarkDebtPaid, opts...))
	mux.Handle(DeleteDebtProcedure, connect.NewUnaryHandler(DeleteDebtProcedure, svc.DeleteDebt, opts...))
	mux.Handle(ComposeReminderProcedure, connect.NewUnaryHandler(ComposeReminderProcedure, svc.ComposeReminder, opts...))
	mux.Handle(GetSummaryProcedure, connect.NewUnaryHandler(GetSummaryProcedure, svc.GetSummary, opts...))

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls a remote ledger service.
type LedgerServiceClient struct {
	validateSplit   *connect.Client[ValidateSplitRequest, ValidateSplitResponse]
	computeShares   *connect.Client[ComputeSharesRequest, ComputeSharesResponse]
	solveSettlement *connect.Client[SolveSettlementRequest, SolveSettlementResponse]
	settleSplit     *connect.Client[SettleSplitRequest, SettleSplitResponse]
	createDebt      *connect.Client[CreateDebtRequest, CreateDebtResponse]
	getDebt         *connect.Client[GetDebtRequest, GetDebtResponse]
	listDebts       *connect.Client[ListDebtsRequest, ListDebtsResponse]
	markDebtPaid    *connect.Client[MarkDebtPaidRequest, MarkDebtPaidResponse]
	deleteDebt      *connect.Client[DeleteDebtRequest, DeleteDebtResponse]
	composeReminder *connect.Client[ComposeReminderRequest, ComposeReminderResponse]
	getSummary      *connect.Client[GetSummaryRequest, GetSummaryResponse]
}

// NewLedgerServiceClient creates a client for the service at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &LedgerServiceClient{
		validateSplit:   connect.NewClient[ValidateSplitRequest, ValidateSplitResponse](httpClient, baseURL+ValidateSplitProcedure, opts...),
		computeShares:   connect.NewClient[ComputeSharesRequest, ComputeSharesResponse](httpClient, baseURL+ComputeSharesProcedure, opts...),
		solveSettlement: connect.NewClient[SolveSettlementRequest, SolveSettlementResponse](httpClient, baseURL+SolveSettlementProcedure, opts...),
		settleSplit:     connect.NewClient[SettleSplitRequest, SettleSplitResponse](httpClient, baseURL+SettleSplitProcedure, opts...),
		createDebt:      connect.NewClient[CreateDebtRequest, CreateDebtResponse](httpClient, baseURL+CreateDebtProcedure, opts...),
		getDebt:         connect.NewClient[GetDebtRequest, GetDebtResponse](httpClient, baseURL+GetDebtProcedure, opts...),
		listDebts:       connect.NewClient[ListDebtsRequest, ListDebtsResponse](httpClient, baseURL+ListDebtsProcedure, opts...),
		markDebtPaid:    connect.NewClient[MarkDebtPaidRequest, MarkDebtPaidResponse](httpClient, baseURL+MarkDebtPaidProcedure, opts...),
		deleteDebt:      connect.NewClient[DeleteDebtRequest, DeleteDebtResponse](httpClient, baseURL+DeleteDebtProcedure, opts...),
		composeReminder: connect.NewClient[ComposeReminderRequest, ComposeReminderResponse](httpClient, baseURL+ComposeReminderProcedure, opts...),
		getSummary:      connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+GetSummaryProcedure, opts...),
	}
}

func (c *LedgerServiceClient) ValidateSplit(ctx context.Context, req *connect.Request[ValidateSplitRequest]) (*connect.Response[ValidateSplitResponse], error) {
	return c.validateSplit.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ComputeShares(ctx context.Context, req *connect.Request[ComputeSharesRequest]) (*connect.Response[ComputeSharesResponse], error) {
	return c.computeShares.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SolveSettlement(ctx context.Context, req *connect.Request[SolveSettlementRequest]) (*connect.Response[SolveSettlementResponse], error) {
	return c.solveSettlement.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SettleSplit(ctx context.Context, req *connect.Request[SettleSplitRequest]) (*connect.Response[SettleSplitResponse], error) {
	return c.settleSplit.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateDebt(ctx context.Context, req *connect.Request[CreateDebtRequest]) (*connect.Response[CreateDebtResponse], error) {
	return c.createDebt.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetDebt(ctx context.Context, req *connect.Request[GetDebtRequest]) (*connect.Response[GetDebtResponse], error) {
	return c.getDebt.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListDebts(ctx context.Context, req *connect.Request[ListDebtsRequest]) (*connect.Response[ListDebtsResponse], error) {
	return c.listDebts.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) MarkDebtPaid(ctx context.Context, req *connect.Request[MarkDebtPaidRequest]) (*connect.Response[MarkDebtPaidResponse], error) {
	return c.markDebtPaid.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteDebt(ctx context.Context, req *connect.Request[DeleteDebtRequest]) (*connect.Response[DeleteDebtResponse], error) {
	return c.deleteDebt.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ComposeReminder(ctx context.Context, req *connect.Request[ComposeReminderRequest]) (*connect.Response[ComposeReminderResponse], error) {
	return c.composeReminder.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}
