package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nordicgeo/geoshop-backend/api/controllers"
	"github.com/nordicgeo/geoshop-backend/api/middleware"
	"github.com/nordicgeo/geoshop-backend/internal/addresses"
	"github.com/nordicgeo/geoshop-backend/internal/auth"
	"github.com/nordicgeo/geoshop-backend/internal/banners"
	"github.com/nordicgeo/geoshop-backend/internal/cart"
	checkoutsvc "github.com/nordicgeo/geoshop-backend/internal/checkout"
	"github.com/nordicgeo/geoshop-backend/internal/orders"
	"github.com/nordicgeo/geoshop-backend/internal/paymentmethods"
	"github.com/nordicgeo/geoshop-backend/internal/posts"
	"github.com/nordicgeo/geoshop-backend/internal/products"
	"github.com/nordicgeo/geoshop-backend/internal/returns"
	"github.com/nordicgeo/geoshop-backend/internal/tracking"
	"github.com/nordicgeo/geoshop-backend/internal/wishlist"
	"github.com/nordicgeo/geoshop-backend/pkg/auth/session"
	"github.com/nordicgeo/geoshop-backend/pkg/config"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
	pkgredis "github.com/nordicgeo/geoshop-backend/pkg/redis"
)

// Deps collects everything the router mounts. cmd/api builds this once at
// startup.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	SessionChecker session.AccessSessionChecker
	Idempotency    pkgredis.IdempotencyStore

	Auth           auth.Service
	Products       products.Service
	Banners        banners.Service
	Posts          posts.Service
	Cart           cart.Service
	Checkout       checkoutsvc.Service
	Orders         orders.Service
	Tracking       tracking.Service
	Returns        returns.Service
	Wishlist       wishlist.Service
	Addresses      addresses.Service
	PaymentMethods paymentmethods.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	authed := middleware.Auth(cfg.JWT, deps.SessionChecker, logg)
	adminOnly := middleware.RequireRole(string(enums.UserRoleAdmin), logg)
	idempotent := middleware.Idempotency(deps.Idempotency, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(idempotent).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	// Public storefront surface.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Products, logg, false))
		r.Get("/{slug}", controllers.ProductBySlug(deps.Products, logg))
	})
	r.Get("/api/v1/banners", controllers.BannerListActive(deps.Banners, logg))
	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Get("/", controllers.PostList(deps.Posts, logg, false))
		r.Get("/{slug}", controllers.PostBySlug(deps.Posts, logg))
	})
	r.Get("/api/v1/tracking/{trackingNumber}", controllers.TrackShipment(deps.Tracking, logg))

	// Authenticated customer surface.
	r.Group(func(r chi.Router) {
		r.Use(authed, idempotent)

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Put("/items", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Route("/api/v1/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutStart(deps.Checkout, logg))
			r.Get("/", controllers.CheckoutGet(deps.Checkout, logg))
			r.Post("/shipping", controllers.CheckoutShipping(deps.Checkout, logg))
			r.Post("/payment", controllers.CheckoutPayment(deps.Checkout, logg))
			r.Post("/back", controllers.CheckoutBack(deps.Checkout, logg))
			r.Get("/quote", controllers.CheckoutQuote(deps.Checkout, logg))
			r.Post("/confirm", controllers.CheckoutConfirm(deps.Checkout, logg))
		})

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(deps.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.OrderCancel(deps.Orders, logg))
		})

		r.Route("/api/v1/returns", func(r chi.Router) {
			r.Post("/", controllers.ReturnCreate(deps.Returns, logg))
			r.Get("/", controllers.ReturnList(deps.Returns, logg))
			r.Get("/{returnID}", controllers.ReturnGet(deps.Returns, logg))
		})

		r.Route("/api/v1/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Delete("/{productID}", controllers.WishlistRemove(deps.Wishlist, logg))
		})

		r.Route("/api/v1/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(deps.Addresses, logg))
			r.Post("/", controllers.AddressAdd(deps.Addresses, logg))
			r.Put("/{addressID}", controllers.AddressUpdate(deps.Addresses, logg))
			r.Post("/{addressID}/default", controllers.AddressSetDefault(deps.Addresses, logg))
			r.Delete("/{addressID}", controllers.AddressRemove(deps.Addresses, logg))
		})

		r.Route("/api/v1/payment-methods", func(r chi.Router) {
			r.Get("/", controllers.PaymentMethodList(deps.PaymentMethods, logg))
			r.Post("/", controllers.PaymentMethodStore(deps.PaymentMethods, logg))
			r.Post("/{methodID}/default", controllers.PaymentMethodSetDefault(deps.PaymentMethods, logg))
			r.Delete("/{methodID}", controllers.PaymentMethodRemove(deps.PaymentMethods, logg))
		})
	})

	// Admin console surface.
	r.Group(func(r chi.Router) {
		r.Use(authed, adminOnly, idempotent)

		r.Route("/api/v1/admin/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg, true))
			r.Post("/", controllers.AdminProductCreate(deps.Products, logg))
			r.Get("/{productID}", controllers.AdminProductGet(deps.Products, logg))
			r.Put("/{productID}", controllers.AdminProductUpdate(deps.Products, logg))
			r.Delete("/{productID}", controllers.AdminProductDelete(deps.Products, logg))
		})

		r.Route("/api/v1/admin/banners", func(r chi.Router) {
			r.Get("/", controllers.AdminBannerList(deps.Banners, logg))
			r.Post("/", controllers.AdminBannerCreate(deps.Banners, logg))
			r.Put("/{bannerID}", controllers.AdminBannerUpdate(deps.Banners, logg))
			r.Post("/{bannerID}/activate", controllers.AdminBannerSetActive(deps.Banners, logg))
			r.Delete("/{bannerID}", controllers.AdminBannerDelete(deps.Banners, logg))
		})

		r.Route("/api/v1/admin/posts", func(r chi.Router) {
			r.Get("/", controllers.PostList(deps.Posts, logg, true))
			r.Post("/", controllers.AdminPostCreate(deps.Posts, logg))
			r.Put("/{postID}", controllers.AdminPostUpdate(deps.Posts, logg))
			r.Post("/{postID}/publish", controllers.AdminPostPublish(deps.Posts, logg))
			r.Post("/{postID}/unpublish", controllers.AdminPostUnpublish(deps.Posts, logg))
			r.Delete("/{postID}", controllers.AdminPostDelete(deps.Posts, logg))
		})

		r.Get("/api/v1/admin/orders", controllers.AdminOrderList(deps.Orders, logg))

		r.Route("/api/v1/admin/returns", func(r chi.Router) {
			r.Get("/", controllers.AdminReturnList(deps.Returns, logg))
			r.Post("/{returnID}/approve", controllers.AdminReturnApprove(deps.Returns, logg))
			r.Post("/{returnID}/reject", controllers.AdminReturnReject(deps.Returns, logg))
		})
	})

	return r
}
