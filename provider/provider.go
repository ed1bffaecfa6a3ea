package provider

import (
	"essay-review/biz/application/service"
	"essay-review/biz/infrastructure/cache"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/gateway"
	"essay-review/biz/infrastructure/lock"
	"essay-review/biz/infrastructure/mail"
	"essay-review/biz/infrastructure/repository/annotation"
	"essay-review/biz/infrastructure/repository/correction"
	"essay-review/biz/infrastructure/repository/notification"
	"essay-review/biz/infrastructure/repository/payment"
	"essay-review/biz/infrastructure/repository/problem"
	"essay-review/biz/infrastructure/repository/submission"
	"essay-review/biz/infrastructure/repository/user"

	"github.com/google/wire"
)

var provider *Provider

func Init() {
	var err error
	provider, err = NewProvider()
	if err != nil {
		panic(err)
	}
}

// Provider 提供controller依赖的对象
type Provider struct {
	Config              *config.Config
	CorrectionService   service.ICorrectionService
	PaymentService      service.IPaymentService
	AnnotationService   service.IAnnotationService
	NotificationService service.INotificationService
	SubmissionService   service.ISubmissionService
	ProblemService      service.IProblemService
}

func Get() *Provider {
	return provider
}

var ApplicationSet = wire.NewSet(
	service.CorrectionServiceSet,
	service.PaymentServiceSet,
	service.AnnotationServiceSet,
	service.NotificationServiceSet,
	service.SubmissionServiceSet,
	service.ProblemServiceSet,
)

var MapperSet = wire.NewSet(
	correction.NewMongoMapper,
	wire.Bind(new(correction.IMongoMapper), new(*correction.MongoMapper)),
	correction.NewRecordMapper,
	wire.Bind(new(correction.IRecordMapper), new(*correction.MySQLMapper)),
	submission.NewMongoMapper,
	wire.Bind(new(submission.IMongoMapper), new(*submission.MongoMapper)),
	problem.NewMongoMapper,
	wire.Bind(new(problem.IMongoMapper), new(*problem.MongoMapper)),
	user.NewMongoMapper,
	wire.Bind(new(user.IMongoMapper), new(*user.MongoMapper)),
	payment.NewMongoMapper,
	wire.Bind(new(payment.IMongoMapper), new(*payment.MongoMapper)),
	annotation.NewMongoMapper,
	wire.Bind(new(annotation.IMongoMapper), new(*annotation.MongoMapper)),
	notification.NewMongoMapper,
	wire.Bind(new(notification.IMongoMapper), new(*notification.MongoMapper)),
)

var InfrastructureSet = wire.NewSet(
	config.NewConfig,
	MapperSet,
	cache.NewReportCacheMapper,
	wire.Bind(new(cache.IReportCacheMapper), new(*cache.ReportCacheMapper)),
	lock.NewRedisLocker,
	wire.Bind(new(lock.ILocker), new(*lock.RedisLocker)),
	mail.NewSender,
	mail.NewDispatcher,
	wire.Bind(new(mail.IDispatcher), new(*mail.Dispatcher)),
	gateway.NewStripeGateway,
	wire.Bind(new(gateway.IGateway), new(*gateway.StripeGateway)),
)

var AllProvider = wire.NewSet(
	ApplicationSet,
	InfrastructureSet,
)
