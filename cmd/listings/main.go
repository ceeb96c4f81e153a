package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"listings-sdk-sol/internal/config"
	"listings-sdk-sol/internal/svc"
	"listings-sdk-sol/pkg/listings"
	"listings-sdk-sol/pkg/logger"
	"listings-sdk-sol/pkg/model"
	"listings-sdk-sol/pkg/types"
	"listings-sdk-sol/pkg/upload"
)

var (
	configFile = flag.String("f", "etc/listings.yaml", "the config file")
	keypair    = flag.String("keypair", "", "payer keypair: JSON array file or base58 secret key")

	name        = flag.String("name", "", "store / collection / item name")
	symbol      = flag.String("symbol", "", "collection symbol")
	description = flag.String("description", "", "asset description")
	file        = flag.String("file", "", "asset main file path")
	fee         = flag.Uint("fee", 0, "store fee or seller fee basis points")
	supply      = flag.Int64("supply", 0, "edition supply")
	price       = flag.Int64("price", 0, "item price in base units, 0 means free")
	splMint     = flag.String("spl-mint", "", "SPL mint of the price, empty means SOL")
	store       = flag.String("store", "", "store account")
	collection  = flag.String("collection", "", "collection mint")
	item        = flag.String("item", "", "item account to buy")
	storeID     = flag.Int("store-id", -1, "pin the store id instead of a random one")
)

const usage = `usage: listings [flags] <command>

commands:
  create-store       create a store under the configured holder
  create-collection  upload an asset and mint a collection NFT
  create-single      upload an asset and list a single edition in a store
  buy                buy one edition of a single item
  pending            list upload sessions that were never finalized
  finalize-pending   retry finalize for confirmed upload sessions

flags:`

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			os.Exit(2)
		}
	}()

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var c config.Config
	conf.MustLoad(*configFile, &c)

	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		logx.Errorf("logger init failed: %v", err)
		os.Exit(1)
	}
	defer logger.Sync()

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		logx.Errorf("service context init failed: %v", err)
		os.Exit(1)
	}
	defer serviceContext.Close()

	if c.MetricsAddr != "" {
		go serveMetrics(c.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, serviceContext, flag.Arg(0)); err != nil {
		logx.Errorf("%s failed: %v", flag.Arg(0), err)
		fmt.Fprintln(os.Stderr, err)
		serviceContext.Close()
		logger.Sync()
		os.Exit(1)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Infof("[Metrics] 监听 %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("[Metrics] 服务退出: %v", err)
	}
}

// 创建商店时的固定费用
const defaultStoreFee = 1_000_000

// uint16Flag 超出范围的参数直接报错，不做截断
func uint16Flag(name string, v int64) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("-%s %d out of range [0, %d]", name, v, math.MaxUint16)
	}
	return uint16(v), nil
}

func run(ctx context.Context, sc *svc.ServiceContext, command string) error {
	switch command {
	case "pending":
		return listPending(ctx, sc)
	case "finalize-pending":
		return finalizePending(ctx, sc)
	}

	feeBps, err := uint16Flag("fee", int64(*fee))
	if err != nil {
		return err
	}

	payer, err := loadKeypair(*keypair)
	if err != nil {
		return fmt.Errorf("load keypair: %w", err)
	}
	payerKey := types.PubkeyFromCommon(payer.PublicKey)

	switch command {
	case "create-store":
		var opts []listings.CallOption
		if *storeID >= 0 {
			id, err := uint16Flag("store-id", int64(*storeID))
			if err != nil {
				return err
			}
			opts = append(opts, listings.WithStoreID(id))
		}
		res, err := sc.Client.CreateStore(ctx, payer, *name, model.StoreConfig{
			Fee:           defaultStoreFee,
			FeePercentage: feeBps,
			FeeType:       model.FeeTypeAllMints,
			Trust:         payerKey,
			Rules:         []model.Rule{},
		}, opts...)
		if err != nil {
			return err
		}
		fmt.Printf("signature: %s\nstore: %s\nstore id: %d\n", res.Signature, res.Store.Key, res.StoreID)

	case "create-collection":
		asset, err := readAsset(feeBps)
		if err != nil {
			return err
		}
		res, err := sc.Client.CreateCollection(ctx, payer, &listings.CollectionArgs{
			Name:                 *name,
			Symbol:               *symbol,
			SellerFeeBasisPoints: feeBps,
			Creators:             []model.Creator{{Address: payerKey, Verified: true, Share: 100}},
			Mutable:              true,
			Supply:               *supply,
			Asset:                asset,
		})
		if err != nil {
			return err
		}
		fmt.Printf("signature: %s\nmint: %s\nmetadata: %s\n", res.Signature, res.Mint, res.Metadata)
		printUpload(res.Upload)

	case "create-single":
		asset, err := readAsset(feeBps)
		if err != nil {
			return err
		}
		storeKey, err := types.TryPubkeyFromBase58(*store)
		if err != nil {
			return fmt.Errorf("-store: %w", err)
		}
		collectionKey, err := types.TryPubkeyFromBase58(*collection)
		if err != nil {
			return fmt.Errorf("-collection: %w", err)
		}
		var mint *types.Pubkey
		if *splMint != "" {
			m, err := types.TryPubkeyFromBase58(*splMint)
			if err != nil {
				return fmt.Errorf("-spl-mint: %w", err)
			}
			mint = &m
		}
		res, err := sc.Client.CreateSingleEdition(ctx, payer, &listings.SingleArgs{
			Store:      storeKey,
			Collection: collectionKey,
			Supply:     *supply,
			Metadata: model.ShortMetadataArgs{
				Name:                 *name,
				SellerFeeBasisPoints: feeBps,
				Creators:             []model.Creator{{Address: payerKey, Verified: false, Share: 100}},
			},
			SaleConfig:    listings.NewSaleConfig(*price, mint),
			Category:      model.Category{1, 0, 0},
			SuperCategory: model.SuperCategory{1, 0},
			Asset:         asset,
		})
		if err != nil {
			return err
		}
		fmt.Printf("signature: %s\nitem: %s\nidentifier: %d\nuri: %s\n", res.Signature, res.Item.Key, res.Identifier, res.MetadataURI)
		printUpload(res.Upload)

	case "buy":
		itemKey, err := types.TryPubkeyFromBase58(*item)
		if err != nil {
			return fmt.Errorf("-item: %w", err)
		}
		res, err := sc.Client.BuySingleEdition(ctx, payer, itemKey, listings.DefaultDistributionBumps())
		if err != nil {
			return err
		}
		fmt.Printf("signature: %s\nitem: %s\ncurrency: %s\n", res.Signature, res.Item.Key, res.Currency)

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func readAsset(feeBps uint16) (*upload.Asset, error) {
	if *file == "" {
		return nil, errors.New("-file is required")
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	base := filepath.Base(*file)
	return &upload.Asset{
		Name:                 *name,
		Symbol:               *symbol,
		Description:          *description,
		SellerFeeBasisPoints: feeBps,
		File: upload.File{
			Name:        base,
			ContentType: mime.TypeByExtension(filepath.Ext(base)),
			Data:        data,
		},
		Traits: []upload.Trait{},
	}, nil
}

func printUpload(o listings.UploadOutcome) {
	fmt.Printf("upload session: %s\ncontent: %s\n", o.SessionID, o.ContentURL)
	if o.Err != nil {
		fmt.Printf("finalize pending: %v\n", o.Err)
	}
}

func listPending(ctx context.Context, sc *svc.ServiceContext) error {
	if sc.Journal == nil {
		return errors.New("upload journal requires redis.addr in the config")
	}
	ids, err := sc.Journal.Pending(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s, err := sc.Journal.Get(ctx, id)
		if err != nil {
			logger.Warnf("[Pending] 读取会话失败: id=%s, err=%v", id, err)
			continue
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n", s.ID, s.Workflow, s.State, s.Signature, s.ContentURL)
	}
	return nil
}

func finalizePending(ctx context.Context, sc *svc.ServiceContext) error {
	outs, err := sc.Client.FinalizePending(ctx)
	if err != nil {
		return err
	}
	for _, o := range outs {
		status := "finalized"
		if o.Err != nil {
			status = o.Err.Error()
		}
		fmt.Printf("%s\t%s\t%s\n", o.SessionID, o.ContentURL, status)
	}
	return nil
}
