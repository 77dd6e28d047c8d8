package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name of the market API.
const ServiceName = "rental.v1.RentalMarket"

// RentalMarketServer is the server API for the rental market service.
type RentalMarketServer interface {
	ListForRental(context.Context, *ListForRentalRequest) (*ListForRentalResponse, error)
	UpdateRentalPrice(context.Context, *UpdateRentalPriceRequest) (*Empty, error)
	RemoveListing(context.Context, *ListingIDRequest) (*Empty, error)
	GetListing(context.Context, *ListingIDRequest) (*ListingResponse, error)
	GetListingByAsset(context.Context, *GetListingByAssetRequest) (*ListingResponse, error)
	GetTotalListings(context.Context, *Empty) (*CountResponse, error)

	RentNFT(context.Context, *RentNFTRequest) (*RentNFTResponse, error)
	ReturnNFT(context.Context, *ListingIDRequest) (*Empty, error)
	AutoReturnExpired(context.Context, *ListingIDRequest) (*Empty, error)
	ResolveDispute(context.Context, *ResolveDisputeRequest) (*Empty, error)
	GetActiveRental(context.Context, *ListingIDRequest) (*ActiveRentalResponse, error)
	GetRentalQuote(context.Context, *RentalQuoteRequest) (*RentalQuoteResponse, error)
	IsRentalExpired(context.Context, *ListingIDRequest) (*IsRentalExpiredResponse, error)
	ListExpiredRentals(context.Context, *Empty) (*ListExpiredRentalsResponse, error)
	GetRentalHistory(context.Context, *UserRequest) (*RentalHistoryResponse, error)

	SetPlatformFeeRate(context.Context, *SetPlatformFeeRateRequest) (*Empty, error)
	SetDurationLimits(context.Context, *SetDurationLimitsRequest) (*Empty, error)
	WithdrawPlatformFees(context.Context, *AmountRequest) (*Empty, error)
	FundAccount(context.Context, *FundAccountRequest) (*Empty, error)
	GetPlatformStats(context.Context, *Empty) (*PlatformStatsResponse, error)

	GetBalance(context.Context, *BalanceRequest) (*BalanceResponse, error)
	GetLedgerEntries(context.Context, *LedgerEntriesRequest) (*LedgerEntriesResponse, error)
	GetUserStats(context.Context, *UserRequest) (*UserStatsResponse, error)
}

// MarketServer assembles the per-area handlers into one RentalMarketServer.
type MarketServer struct {
	*ListingHandler
	*RentalHandler
	*AdminHandler
	*LedgerHandler
}

var _ RentalMarketServer = (*MarketServer)(nil)

func NewMarketServer(l *ListingHandler, r *RentalHandler, a *AdminHandler, g *LedgerHandler) *MarketServer {
	return &MarketServer{ListingHandler: l, RentalHandler: r, AdminHandler: a, LedgerHandler: g}
}

// unary adapts a typed server method into a grpc method handler, routing the call
// through the server interceptor chain when one is installed.
func unary[Req, Resp any](name string, call func(RentalMarketServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RentalMarketServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RentalMarketServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var RentalMarketServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RentalMarketServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListForRental", RentalMarketServer.ListForRental),
		unary("UpdateRentalPrice", RentalMarketServer.UpdateRentalPrice),
		unary("RemoveListing", RentalMarketServer.RemoveListing),
		unary("GetListing", RentalMarketServer.GetListing),
		unary("GetListingByAsset", RentalMarketServer.GetListingByAsset),
		unary("GetTotalListings", RentalMarketServer.GetTotalListings),
		unary("RentNFT", RentalMarketServer.RentNFT),
		unary("ReturnNFT", RentalMarketServer.ReturnNFT),
		unary("AutoReturnExpired", RentalMarketServer.AutoReturnExpired),
		unary("ResolveDispute", RentalMarketServer.ResolveDispute),
		unary("GetActiveRental", RentalMarketServer.GetActiveRental),
		unary("GetRentalQuote", RentalMarketServer.GetRentalQuote),
		unary("IsRentalExpired", RentalMarketServer.IsRentalExpired),
		unary("ListExpiredRentals", RentalMarketServer.ListExpiredRentals),
		unary("GetRentalHistory", RentalMarketServer.GetRentalHistory),
		unary("SetPlatformFeeRate", RentalMarketServer.SetPlatformFeeRate),
		unary("SetDurationLimits", RentalMarketServer.SetDurationLimits),
		unary("WithdrawPlatformFees", RentalMarketServer.WithdrawPlatformFees),
		unary("FundAccount", RentalMarketServer.FundAccount),
		unary("GetPlatformStats", RentalMarketServer.GetPlatformStats),
		unary("GetBalance", RentalMarketServer.GetBalance),
		unary("GetLedgerEntries", RentalMarketServer.GetLedgerEntries),
		unary("GetUserStats", RentalMarketServer.GetUserStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rental/v1/market.proto",
}

func RegisterRentalMarketServer(s grpc.ServiceRegistrar, srv RentalMarketServer) {
	s.RegisterService(&RentalMarketServiceDesc, srv)
}

// RentalMarketClient is a thin client for the market service over the JSON codec.
type RentalMarketClient struct {
	cc grpc.ClientConnInterface
}

func NewRentalMarketClient(cc grpc.ClientConnInterface) *RentalMarketClient {
	return &RentalMarketClient{cc: cc}
}

// Invoke calls method with the JSON content subtype forced on.
func (c *RentalMarketClient) Invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

func (c *RentalMarketClient) ListExpiredRentals(ctx context.Context, opts ...grpc.CallOption) (*ListExpiredRentalsResponse, error) {
	out := new(ListExpiredRentalsResponse)
	if err := c.Invoke(ctx, "ListExpiredRentals", &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RentalMarketClient) AutoReturnExpired(ctx context.Context, listingID uint64, opts ...grpc.CallOption) error {
	return c.Invoke(ctx, "AutoReturnExpired", &ListingIDRequest{ListingID: listingID}, &Empty{}, opts...)
}
