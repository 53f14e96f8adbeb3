package model

// All 返回全部模型，供 sqlite AutoMigrate 与测试建表使用
func All() []interface{} {
	return []interface{}{
		&TourCategory{},
		&Destination{},
		&TourGuide{},
		&Tour{},
		&TourSchedule{},
		&TourBooking{},
		&TourReview{},
		&GuideLeaveRequest{},
		&GuideBlackoutDate{},
		&GuideAvailabilitySchedule{},
	}
}
