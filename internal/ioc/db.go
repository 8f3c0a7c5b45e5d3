package ioc

import (
	"gitee.com/flycash/communication-platform/internal/repository/dao"
	"github.com/ego-component/egorm"
)

func InitDB() *egorm.Component {
	db := egorm.Load("mysql").Build()
	// 语言、应用、模板等表由运营后台维护，这里只保证表结构存在
	err := dao.InitTables(db)
	if err != nil {
		panic(err)
	}
	return db
}
